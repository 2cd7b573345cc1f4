package orchestrator

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/pipelineerr"
)

// regGet/regPut/regDelete route a single registry call through the
// orchestrator's retry path, the same backoff-and-breaker budget used
// for repository calls (spec.md §7: resource failures on "either the
// repository or the registry" are retried).
func (o *Orchestrator) regGet(ctx context.Context, key string) (string, bool, error) {
	resAny, err := o.withRetry(ctx, "registry.Get:"+key, func() (any, error) {
		value, ok, getErr := o.reg.Get(ctx, key)
		return sharedVersionLookup{value: value, ok: ok}, getErr
	})
	if err != nil {
		return "", false, err
	}
	lookup := resAny.(sharedVersionLookup)
	return lookup.value, lookup.ok, nil
}

func (o *Orchestrator) regPut(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := o.withRetry(ctx, "registry.Put:"+key, func() (any, error) {
		return nil, o.reg.Put(ctx, key, value, ttl)
	})
	return err
}

func (o *Orchestrator) regDelete(ctx context.Context, key string) error {
	_, err := o.withRetry(ctx, "registry.Delete:"+key, func() (any, error) {
		return nil, o.reg.Delete(ctx, key)
	})
	return err
}

// Promote runs the atomic (from the reader's perspective) three-
// pointer rotation of spec.md §4.5: archived ← previous, previous ←
// current, current ← newVersion. Writes version metadata to the
// repository's durable copy and mirrors it into the registry under
// rec:version:<v> (spec.md §6's fast-path dual write).
func (o *Orchestrator) Promote(ctx context.Context, newVersion string, quality QualityReport) error {
	return o.locker.WithLock(ctx, "promotion", o.redisCfg.PromotionLockTTL, func(ctx context.Context) error {
		current, hasCurrent, err := o.regGet(ctx, models.KeyCurrentVersion)
		if err != nil {
			return err
		}
		previous, hasPrevious, err := o.regGet(ctx, models.KeyPreviousVersion)
		if err != nil {
			return err
		}

		if hasPrevious {
			if err := o.regPut(ctx, models.KeyArchivedVersion, previous, 0); err != nil {
				return err
			}
		} else if err := o.regDelete(ctx, models.KeyArchivedVersion); err != nil {
			return err
		}

		if hasCurrent {
			if err := o.regPut(ctx, models.KeyPreviousVersion, current, 0); err != nil {
				return err
			}
		} else if err := o.regDelete(ctx, models.KeyPreviousVersion); err != nil {
			return err
		}

		if err := o.regPut(ctx, models.KeyCurrentVersion, newVersion, 0); err != nil {
			return err
		}

		meta := models.VersionMetadata{
			Version:   newVersion,
			CreatedAt: time.Now().UTC(),
			Status:    models.VersionActive,
			QualityMetrics: models.QualityMetrics{
				AvgScore:  quality.AvgScore,
				Coverage:  quality.Coverage,
				Diversity: quality.Diversity,
			},
		}
		if _, err := o.withRetry(ctx, "Promote.SaveVersionMetadata", func() (any, error) {
			return nil, o.repo.SaveVersionMetadata(ctx, meta)
		}); err != nil {
			return err
		}

		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return pipelineerr.InvariantViolation("Promote", "failed to encode version metadata for registry mirror")
		}
		if err := o.regPut(ctx, models.VersionMetadataKey(newVersion), string(metaJSON), 0); err != nil {
			return err
		}

		o.log.PromotionLogger(newVersion, current, previous)
		return nil
	})
}

// Rollback swaps current and previous. Two consecutive rollbacks
// return the pointers to their original state (spec.md §8 property 9).
func (o *Orchestrator) Rollback(ctx context.Context) error {
	return o.locker.WithLock(ctx, "promotion", o.redisCfg.PromotionLockTTL, func(ctx context.Context) error {
		current, hasCurrent, err := o.regGet(ctx, models.KeyCurrentVersion)
		if err != nil {
			return err
		}
		previous, hasPrevious, err := o.regGet(ctx, models.KeyPreviousVersion)
		if err != nil {
			return err
		}
		if !hasCurrent || !hasPrevious {
			return pipelineerr.InvariantViolation("Rollback", "cannot roll back without both current and previous versions set")
		}

		if err := o.regPut(ctx, models.KeyCurrentVersion, previous, 0); err != nil {
			return err
		}
		if err := o.regPut(ctx, models.KeyPreviousVersion, current, 0); err != nil {
			return err
		}
		o.log.Info("rolled back active version", zap.String("new_current", previous), zap.String("new_previous", current))
		return nil
	})
}

// warmUp pre-materializes up to warmCacheSize records into the
// process-local WarmCache and write-through into the registry's
// per-(pid,version) hot cache (spec.md §6: "recs:<pid>:<v>", TTL
// o.redisCfg.HotCacheTTL). Per-product failures are swallowed; the
// batch is never failed by warm-up errors (spec.md §7).
func (o *Orchestrator) warmUp(ctx context.Context, version string, records []models.Recommendation) {
	limit := warmCacheSize
	if len(records) < limit {
		limit = len(records)
	}
	for _, rec := range records[:limit] {
		if o.warm != nil {
			o.warm.Put(rec.PID, version, rec)
		}

		data, err := json.Marshal(rec)
		if err != nil {
			o.log.Warn("failed to encode hot-cache entry", zap.String("pid", rec.PID), zap.Error(err))
			continue
		}
		if err := o.regPut(ctx, models.HotCacheKey(rec.PID, version), string(data), o.redisCfg.HotCacheTTL); err != nil {
			o.log.Warn("failed to write-through hot-cache entry", zap.String("pid", rec.PID), zap.Error(err))
		}
	}
}
