package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iaros/recoengine/internal/daemon"
	"github.com/iaros/recoengine/internal/scheduler"
	"github.com/iaros/recoengine/internal/trigger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the supervised daemon: cron scheduler + kafka trigger consumer",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		d := daemon.New()
		d.AddJobService(scheduler.New(a.cfg.Schedule, a.orch, a.log))
		d.AddJobService(trigger.New(a.cfg.Kafka, a.orch, a.log))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-quit
			a.log.Info("shutting down recoengine daemon")
			cancel()
		}()

		return d.Serve(ctx)
	},
}
