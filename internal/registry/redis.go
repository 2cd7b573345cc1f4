package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/pipelineerr"
)

// RedisRegistry is the production Registry, backed by a single redis
// client. Keys are namespaced by the caller (see models.KeyCurrentVersion
// and friends) so this type does no prefixing of its own.
type RedisRegistry struct {
	client *redis.Client
}

// Connect opens a redis client per cfg and verifies connectivity with
// a PING.
func Connect(cfg config.RedisConfig) (*RedisRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisRegistry{client: client}, nil
}

// Close releases the underlying connection pool.
func (r *RedisRegistry) Close() error {
	return r.client.Close()
}

// Client exposes the underlying redis client so callers can build a
// RedisLocker sharing this registry's connection.
func (r *RedisRegistry) Client() *redis.Client {
	return r.client
}

// Get implements Registry. Failures are wrapped as a retryable
// pipelineerr.ResourceFailure, the same shape the repository uses, so
// callers can route registry calls through the orchestrator's retry
// path (spec.md §7).
func (r *RedisRegistry) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pipelineerr.ResourceFailure("RedisRegistry.Get", fmt.Sprintf("get %s", key), err)
	}
	return val, true, nil
}

// Put implements Registry. A zero ttl stores the key with no
// expiration (redis.KeepTTL is not used here: 0 means "forever" for a
// fresh write, matching the version-pointer use case where expiration
// is an explicit, separate concern from the value itself).
func (r *RedisRegistry) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return pipelineerr.ResourceFailure("RedisRegistry.Put", fmt.Sprintf("put %s", key), err)
	}
	return nil
}

// Delete implements Registry.
func (r *RedisRegistry) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return pipelineerr.ResourceFailure("RedisRegistry.Delete", fmt.Sprintf("delete %s", key), err)
	}
	return nil
}

// RedisLocker is a Locker backed by bsm/redislock, guarding the
// promotion protocol's critical section against concurrent
// orchestrators racing on the same current/previous/archived rotation.
type RedisLocker struct {
	locker *redislock.Client
}

// NewRedisLocker builds a Locker sharing client with a RedisRegistry's
// connection.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{locker: redislock.New(client)}
}

// WithLock implements Locker.
func (l *RedisLocker) WithLock(ctx context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	lock, err := l.locker.Obtain(ctx, "lock:"+name, timeout, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("lock %s held by another orchestrator", name)
	}
	if err != nil {
		return fmt.Errorf("obtain lock %s: %w", name, err)
	}
	defer lock.Release(ctx)

	return fn(ctx)
}
