package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// noopService is a suture.Service stub used to verify the tree wires
// services into the correct layer and runs them.
type noopService struct{ ran chan struct{} }

func (s *noopService) Serve(ctx context.Context) error {
	close(s.ran)
	<-ctx.Done()
	return ctx.Err()
}

func TestDaemonRunsRegisteredServices(t *testing.T) {
	d := New()
	job := &noopService{ran: make(chan struct{})}
	maint := &noopService{ran: make(chan struct{})}
	d.AddJobService(job)
	d.AddMaintenanceService(maint)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx) }()

	select {
	case <-job.ran:
	case <-time.After(2 * time.Second):
		assert.Fail(t, "job service never started")
	}
	select {
	case <-maint.ran:
	case <-time.After(2 * time.Second):
		assert.Fail(t, "maintenance service never started")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		assert.Fail(t, "daemon did not shut down within 2s")
	}
}
