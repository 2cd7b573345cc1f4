// Package daemon supervises the engine's long-running services — the
// cron scheduler, the kafka trigger consumer, and (indirectly, via the
// orchestrator's own warm-up step) the cache warmer — under a
// suture.v4 root supervisor, so a crash in one does not take down the
// others or the process.
package daemon

import (
	"context"

	"github.com/thejerf/suture/v4"
)

// Daemon is a two-layer supervisor tree: a "jobs" layer (scheduler,
// trigger consumer) and a "maintenance" layer, isolated from each
// other so a crash loop in one does not restart the other.
type Daemon struct {
	root        *suture.Supervisor
	jobs        *suture.Supervisor
	maintenance *suture.Supervisor
}

// New builds an unstarted Daemon.
func New() *Daemon {
	root := suture.NewSimple("recoengine")
	jobs := suture.NewSimple("recoengine-jobs")
	maintenance := suture.NewSimple("recoengine-maintenance")

	root.Add(jobs)
	root.Add(maintenance)

	return &Daemon{root: root, jobs: jobs, maintenance: maintenance}
}

// AddJobService registers a service on the jobs layer (scheduler,
// trigger consumer).
func (d *Daemon) AddJobService(svc suture.Service) suture.ServiceToken {
	return d.jobs.Add(svc)
}

// AddMaintenanceService registers a service on the maintenance layer
// (e.g. a periodic cache-warm sweep independent of batch promotion).
func (d *Daemon) AddMaintenanceService(svc suture.Service) suture.ServiceToken {
	return d.maintenance.Add(svc)
}

// Serve starts the supervisor tree and blocks until ctx is canceled.
func (d *Daemon) Serve(ctx context.Context) error {
	return d.root.Serve(ctx)
}
