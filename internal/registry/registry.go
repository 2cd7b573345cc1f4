// Package registry is the version registry (C7): the one globally
// shared mutable resource in the pipeline. It holds the rolling
// current/previous/archived version pointers, the per-version
// metadata records, the short-lived shared batch_version handle, and
// the best-effort hot-cache entries, all addressed by the plain
// get/put/delete contract described in spec.md §4.6/§4.7.
package registry

import (
	"context"
	"time"
)

// Registry is the interface every pipeline component depends on.
// Implementations need only guarantee per-key atomicity; promotion's
// three-pointer rotation is not required to be a single transaction
// (spec.md §9: "a compare-and-swap on current is recommended but not
// required").
type Registry interface {
	// Get returns the value stored at key, or ("", false, nil) if
	// absent or expired.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores value at key. A zero ttl means no expiration.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Locker guards the promotion protocol's critical section against
// concurrent orchestrators. Implementations need only best-effort
// mutual exclusion: per spec.md §9, a race between two orchestrators
// still yields a valid (if unintended) history, so the lock narrows
// the contention window rather than making it strictly impossible.
type Locker interface {
	// WithLock runs fn while holding name, with timeout as the lock's
	// expiry; returns fn's error, or an error if the lock is already
	// held or could not be obtained.
	WithLock(ctx context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error
}
