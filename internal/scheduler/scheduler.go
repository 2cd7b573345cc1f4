// Package scheduler drives the orchestrator's three job types on the
// periodic cadence named by spec.md §1 ("Periodically, and on
// demand"), using per-job-type cron schedules.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/logging"
	"github.com/iaros/recoengine/internal/orchestrator"
)

// Scheduler is a suture.Service: Serve blocks until ctx is canceled,
// running cron-scheduled batch triggers in the background.
type Scheduler struct {
	cfg  config.ScheduleConfig
	orch *orchestrator.Orchestrator
	log  *logging.Logger
}

// New builds a Scheduler. It does not start ticking until Serve runs.
func New(cfg config.ScheduleConfig, orch *orchestrator.Orchestrator, log *logging.Logger) *Scheduler {
	return &Scheduler{cfg: cfg, orch: orch, log: log}
}

// Serve implements suture.Service: registers the three cron entries,
// starts the cron runner, and blocks until ctx is canceled, at which
// point the runner is stopped and any in-flight job is allowed to
// finish.
func (s *Scheduler) Serve(ctx context.Context) error {
	c := cron.New()

	entries := []struct {
		schedule string
		jobType  orchestrator.JobType
	}{
		{s.cfg.CollaborativeCron, orchestrator.JobCollaborative},
		{s.cfg.AssociationCron, orchestrator.JobAssociation},
		{s.cfg.HybridCron, orchestrator.JobHybrid},
	}

	for _, entry := range entries {
		if entry.schedule == "" {
			continue
		}
		jobType := entry.jobType
		if _, err := c.AddFunc(entry.schedule, func() {
			s.triggerAndLog(ctx, jobType)
		}); err != nil {
			return err
		}
	}

	c.Start()
	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}

func (s *Scheduler) triggerAndLog(ctx context.Context, jobType orchestrator.JobType) {
	result, err := s.orch.TriggerBatch(ctx, jobType)
	if err != nil {
		s.log.Error("scheduled batch failed", zap.String("job_type", string(jobType)), zap.Error(err))
		return
	}
	s.log.Info("scheduled batch completed",
		zap.String("job_type", string(jobType)),
		zap.String("version", result.Version),
		zap.String("state", string(result.State)),
	)
}
