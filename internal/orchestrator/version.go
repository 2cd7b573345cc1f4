package orchestrator

import (
	"context"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/iaros/recoengine/internal/logging"
	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/registry"
)

// sharedVersionLookup carries a reg.Get result through withRetry, which
// only knows how to hand back an `any`.
type sharedVersionLookup struct {
	value string
	ok    bool
}

// acquireSharedVersion looks up the short-lived batch_version pointer,
// reusing it if present. Absent, it allocates a new monotonic tag
// (ksuid: k-sortable, totally ordered by creation time, matching the
// "Version: opaque string, totally ordered by creation time" data
// model) and best-effort publishes it with o.redisCfg.BatchVersionTTL.
// Both the lookup and the publish go through the orchestrator's retry
// path (spec.md §7); a publish failure that survives retries does not
// abort the batch — the allocated tag is unique per process creation,
// so correctness holds even if the shared pointer never lands.
func (o *Orchestrator) acquireSharedVersion(ctx context.Context, reg registry.Registry, log *logging.Logger) (string, error) {
	lookupAny, err := o.withRetry(ctx, "acquireSharedVersion.Get", func() (any, error) {
		value, ok, getErr := reg.Get(ctx, models.KeyBatchVersion)
		return sharedVersionLookup{value: value, ok: ok}, getErr
	})
	if err != nil {
		log.Warn("failed to read shared batch version after retries, allocating locally", zap.Error(err))
	} else if lookup := lookupAny.(sharedVersionLookup); lookup.ok {
		return lookup.value, nil
	}

	tag := ksuid.New().String()
	if _, err := o.withRetry(ctx, "acquireSharedVersion.Put", func() (any, error) {
		return nil, reg.Put(ctx, models.KeyBatchVersion, tag, o.redisCfg.BatchVersionTTL)
	}); err != nil {
		log.Warn("failed to publish shared batch version, proceeding locally", zap.Error(err))
	}
	return tag, nil
}
