package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/logging"
)

// TestServeStopsOnContextCancel checks that Serve returns promptly
// once its context is canceled, even with no cron entries configured.
func TestServeStopsOnContextCancel(t *testing.T) {
	s := New(config.ScheduleConfig{}, nil, logging.New("scheduler-test"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		assert.Fail(t, "Serve did not return within 2s of context cancellation")
	}
}
