package main

import (
	"github.com/spf13/cobra"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (defaults built in if omitted)")
	rootCmd.AddCommand(triggerBatchCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "recoengine",
	Short: "Product-recommendation batch engine",
	Long:  "recoengine computes item-item similarity, association rules, and hybrid blends over an order history, and publishes them under a versioned, atomically-promoted snapshot.",
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
