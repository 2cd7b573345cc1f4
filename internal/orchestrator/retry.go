package orchestrator

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/iaros/recoengine/internal/pipelineerr"
)

// maxResourceAttempts bounds the exponential backoff retry budget for
// resource failures (spec.md §7: "retried ... with exponential backoff
// up to a small attempt budget; on exhaustion the batch fails without
// promotion").
const maxResourceAttempts = 4

// newBreaker builds the circuit breaker guarding repository and
// registry calls, tripping once more than five consecutive failures
// occur, in the same shape the fleet's GDS client uses.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
}

// withRetry runs op through the breaker, retrying resource failures
// with exponential backoff up to maxResourceAttempts. Non-resource
// errors (invariant violations, input degeneracy, hybrid
// preconditions) are returned immediately without retry.
func (o *Orchestrator) withRetry(ctx context.Context, operation string, op func() (any, error)) (any, error) {
	var lastErr error
	backoff := 100 * time.Millisecond

	for attempt := 1; attempt <= maxResourceAttempts; attempt++ {
		result, err := o.breaker.Execute(op)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !pipelineerr.IsRetryable(err) {
			return nil, err
		}
		if attempt == maxResourceAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, pipelineerr.ResourceFailure(operation, "exhausted retry budget", lastErr)
}
