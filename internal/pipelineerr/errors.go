// Package pipelineerr defines the typed error taxonomy used across the
// batch pipeline, mirroring the kinds named in the orchestrator's error
// handling design: invariant violations, input degeneracy, resource
// failures, hybrid preconditions, parallel-path fallbacks, and
// cache-warming failures.
package pipelineerr

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind categorizes a pipeline error for dispatch by callers (retry,
// abort, or swallow).
type Kind string

const (
	// KindInvariantViolation marks a programmer error: pruning
	// mis-computed, a score outside [0,1], a heap overflow. Fatal,
	// aborts the batch, leaves no durable state mutated.
	KindInvariantViolation Kind = "INVARIANT_VIOLATION"
	// KindInputDegeneracy marks empty orders, empty catalog, or a
	// catalog entirely below MinCommonUsers. Non-fatal; the batch
	// produces an empty result.
	KindInputDegeneracy Kind = "INPUT_DEGENERACY"
	// KindResourceFailure marks a repository or registry call that
	// failed. Retried by the orchestrator with backoff.
	KindResourceFailure Kind = "RESOURCE_FAILURE"
	// KindHybridPrecondition marks a missing collaborative or
	// association record set for the version the hybrid job read.
	KindHybridPrecondition Kind = "HYBRID_PRECONDITION_FAILURE"
	// KindParallelFallback marks a worker-pool failure that triggered
	// a sequential-path fallback.
	KindParallelFallback Kind = "PARALLEL_PATH_FALLBACK"
	// KindCacheWarmFailure marks a per-product cache warm-up failure.
	// Always swallowed; never fails the batch.
	KindCacheWarmFailure Kind = "CACHE_WARM_FAILURE"
)

// Error is the engine's standard error shape, carrying enough context
// for structured logging and retry decisions without exposing callers
// to the underlying cause's concrete type.
type Error struct {
	ID        string
	Kind      Kind
	Operation string
	Message   string
	Cause     error
	Retryable bool
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Operation, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, operation, message string, cause error, retryable bool) *Error {
	return &Error{
		ID:        uuid.New().String(),
		Kind:      kind,
		Operation: operation,
		Message:   message,
		Cause:     cause,
		Retryable: retryable,
		Timestamp: time.Now(),
	}
}

// InvariantViolation builds a fatal programmer-error.
func InvariantViolation(operation, message string) *Error {
	return newError(KindInvariantViolation, operation, message, nil, false)
}

// InputDegeneracy builds a non-fatal empty-input condition.
func InputDegeneracy(operation, message string) *Error {
	return newError(KindInputDegeneracy, operation, message, nil, false)
}

// ResourceFailure wraps a repository/registry failure as retryable.
func ResourceFailure(operation, message string, cause error) *Error {
	return newError(KindResourceFailure, operation, message, cause, true)
}

// HybridPrecondition builds a hybrid-job precondition failure.
func HybridPrecondition(operation, message string) *Error {
	return newError(KindHybridPrecondition, operation, message, nil, false)
}

// ParallelFallback wraps a worker-pool failure that triggered a
// sequential fallback.
func ParallelFallback(operation, message string, cause error) *Error {
	return newError(KindParallelFallback, operation, message, cause, false)
}

// CacheWarmFailure wraps a per-product cache warm-up failure. Always
// swallowed by the caller; constructed only so it can be logged
// uniformly.
func CacheWarmFailure(operation, message string, cause error) *Error {
	return newError(KindCacheWarmFailure, operation, message, cause, false)
}

// IsRetryable reports whether err (if a *Error) should be retried.
func IsRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable
	}
	return false
}

// KindOf returns the Kind of err, or "" if err is not a *Error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
