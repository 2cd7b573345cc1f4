package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iaros/recoengine/internal/orchestrator"
)

var triggerBatchCmd = &cobra.Command{
	Use:       "trigger-batch [collaborative|association|hybrid]",
	Short:     "Run one batch job synchronously",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"collaborative", "association", "hybrid"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.orch.TriggerBatch(context.Background(), orchestrator.JobType(args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("batch complete: version=%s state=%s avg_score=%.4f coverage=%.4f diversity=%.4f\n",
			result.Version, result.State, result.Quality.AvgScore, result.Quality.Coverage, result.Quality.Diversity)
		return nil
	},
}
