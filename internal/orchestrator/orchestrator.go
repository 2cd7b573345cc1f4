package orchestrator

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/iaros/recoengine/internal/blend"
	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/logging"
	"github.com/iaros/recoengine/internal/mining"
	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/pipelineerr"
	"github.com/iaros/recoengine/internal/registry"
	"github.com/iaros/recoengine/internal/repository"
	"github.com/iaros/recoengine/internal/similarity"
)

// warmCacheSize is "up to 100 products" per spec.md §4.5.
const warmCacheSize = 100

// Orchestrator drives one batch job at a time: it acquires a shared
// version, runs the requested algorithm job, persists and validates
// the result, and — for the collaborative and association jobs —
// atomically promotes it.
type Orchestrator struct {
	repo   repository.Repository
	reg    registry.Registry
	locker registry.Locker
	warm   *registry.WarmCache

	simEngine *similarity.Engine
	miner     *mining.Miner
	blender   *blend.Blender

	topN     int
	breaker  *gobreaker.CircuitBreaker
	log      *logging.Logger
	redisCfg config.RedisConfig
}

// New builds an Orchestrator from its dependencies. warm may be nil,
// in which case warm-up writes only the registry hot-cache entries.
// redisCfg supplies the
// cache TTLs and promotion lock timeout named in spec.md §6.
func New(
	repo repository.Repository,
	reg registry.Registry,
	locker registry.Locker,
	warm *registry.WarmCache,
	simEngine *similarity.Engine,
	miner *mining.Miner,
	blender *blend.Blender,
	topN int,
	log *logging.Logger,
	redisCfg config.RedisConfig,
) *Orchestrator {
	return &Orchestrator{
		repo:      repo,
		reg:       reg,
		locker:    locker,
		warm:      warm,
		simEngine: simEngine,
		miner:     miner,
		blender:   blender,
		topN:      topN,
		breaker:   newBreaker("orchestrator"),
		log:       log,
		redisCfg:  redisCfg,
	}
}

// TriggerBatch dispatches jobType to the matching job. It is the
// entrypoint the scheduler, the kafka trigger consumer, and the CLI's
// "trigger-batch" command all share.
func (o *Orchestrator) TriggerBatch(ctx context.Context, jobType JobType) (*BatchResult, error) {
	switch jobType {
	case JobCollaborative:
		return o.RunCollaborative(ctx)
	case JobAssociation:
		return o.RunAssociation(ctx)
	case JobHybrid:
		return o.RunHybrid(ctx)
	default:
		return nil, pipelineerr.InvariantViolation("TriggerBatch", fmt.Sprintf("unknown job type %q", jobType))
	}
}

// RunCollaborative executes the collaborative job per spec.md §4.5:
// load orders, derive incidence, run the similarity engine, persist,
// validate, promote.
func (o *Orchestrator) RunCollaborative(ctx context.Context) (*BatchResult, error) {
	version, err := o.acquireSharedVersion(ctx, o.reg, o.log)
	if err != nil {
		return nil, err
	}
	o.log.BatchLogger("", version, string(StateAllocated))

	ordersAny, err := o.withRetry(ctx, "RunCollaborative.ListOrders", func() (any, error) {
		return o.repo.ListOrders(ctx)
	})
	if err != nil {
		return nil, err
	}
	orders := ordersAny.([]models.Order)

	if len(orders) == 0 {
		o.log.Warn("no orders available, collaborative job produces empty output", zap.String("version", version))
		return &BatchResult{Version: version, JobType: JobCollaborative, State: StateValidated}, nil
	}

	incidence := similarity.BuildIncidence(orders)
	similarities := o.simEngine.Compute(incidence)
	o.log.BatchLogger("", version, string(StateComputing))

	weights := models.Weights{Collaborative: 1.0, Association: 0.0}
	records := make([]models.Recommendation, 0, len(similarities))
	for pid, entries := range similarities {
		items := make([]models.RecommendationItem, 0, len(entries))
		for _, e := range entries {
			score := e.Score
			items = append(items, models.RecommendationItem{
				OtherPID: e.OtherPID,
				Score:    score,
				Breakdown: models.ScoreBreakdown{
					Collaborative: &score,
					BlendedScore:  score,
					Weights:       weights,
				},
			})
		}
		rec := models.Recommendation{PID: pid, Version: version, Algorithm: models.AlgorithmCollaborative}
		if err := rec.SetItems(items); err != nil {
			return nil, pipelineerr.InvariantViolation("RunCollaborative", fmt.Sprintf("failed to encode items for %s: %v", pid, err))
		}
		records = append(records, rec)
	}

	return o.persistValidatePromote(ctx, version, JobCollaborative, records)
}

// RunAssociation executes the association job per spec.md §4.5:
// build co-occurrence and frequency, run the miner, persist, validate,
// promote. Products with no surviving rules are omitted.
func (o *Orchestrator) RunAssociation(ctx context.Context) (*BatchResult, error) {
	version, err := o.acquireSharedVersion(ctx, o.reg, o.log)
	if err != nil {
		return nil, err
	}
	o.log.BatchLogger("", version, string(StateAllocated))

	ordersAny, err := o.withRetry(ctx, "RunAssociation.ListOrders", func() (any, error) {
		return o.repo.ListOrders(ctx)
	})
	if err != nil {
		return nil, err
	}
	orders := ordersAny.([]models.Order)

	if len(orders) == 0 {
		o.log.Warn("no orders available, association job produces empty output", zap.String("version", version))
		return &BatchResult{Version: version, JobType: JobAssociation, State: StateValidated}, nil
	}

	co, freq, n := mining.BuildCoOccurrenceAndFrequency(orders)
	rules := o.miner.Mine(co, freq, n)
	o.log.BatchLogger("", version, string(StateComputing))

	weights := models.Weights{Collaborative: 0.0, Association: 1.0}
	records := make([]models.Recommendation, 0, len(rules))
	for pid, ruleset := range rules {
		if len(ruleset) == 0 {
			continue
		}
		if o.topN > 0 && len(ruleset) > o.topN {
			ruleset = ruleset[:o.topN]
		}
		items := make([]models.RecommendationItem, 0, len(ruleset))
		for _, r := range ruleset {
			confidence := r.Confidence
			items = append(items, models.RecommendationItem{
				OtherPID: r.Consequent,
				Score:    confidence,
				Breakdown: models.ScoreBreakdown{
					Association:  &confidence,
					BlendedScore: confidence,
					Weights:      weights,
				},
			})
		}
		rec := models.Recommendation{PID: pid, Version: version, Algorithm: models.AlgorithmAssociation}
		if err := rec.SetItems(items); err != nil {
			return nil, pipelineerr.InvariantViolation("RunAssociation", fmt.Sprintf("failed to encode items for %s: %v", pid, err))
		}
		records = append(records, rec)
	}

	return o.persistValidatePromote(ctx, version, JobAssociation, records)
}

// RunHybrid executes the hybrid job per spec.md §4.5: read both
// algorithms' records for the current shared version, blend, persist,
// validate. Never promotes.
func (o *Orchestrator) RunHybrid(ctx context.Context) (*BatchResult, error) {
	version, err := o.acquireSharedVersion(ctx, o.reg, o.log)
	if err != nil {
		return nil, err
	}

	collabAny, err := o.withRetry(ctx, "RunHybrid.FindByVersion.collaborative", func() (any, error) {
		return o.repo.FindByVersion(ctx, version, models.AlgorithmCollaborative)
	})
	if err != nil {
		return nil, err
	}
	assocAny, err := o.withRetry(ctx, "RunHybrid.FindByVersion.association", func() (any, error) {
		return o.repo.FindByVersion(ctx, version, models.AlgorithmAssociation)
	})
	if err != nil {
		return nil, err
	}

	collabRecs := collabAny.([]models.Recommendation)
	assocRecs := assocAny.([]models.Recommendation)
	if len(collabRecs) == 0 || len(assocRecs) == 0 {
		return nil, pipelineerr.HybridPrecondition("RunHybrid", "both collaborative and association record sets must be present")
	}

	collabByPID := recsByPID(collabRecs)
	assocByPID := recsByPID(assocRecs)

	union := make(map[string]struct{}, len(collabByPID)+len(assocByPID))
	for pid := range collabByPID {
		union[pid] = struct{}{}
	}
	for pid := range assocByPID {
		union[pid] = struct{}{}
	}

	weights := blend.ResolveWeights(true, true, false)
	records := make([]models.Recommendation, 0, len(union))
	for pid := range union {
		var collabEntries, assocEntries []models.SimilarityEntry
		if rec, ok := collabByPID[pid]; ok {
			collabEntries = toSimilarityEntries(rec)
		}
		if rec, ok := assocByPID[pid]; ok {
			assocEntries = toSimilarityEntries(rec)
		}

		blended := o.blender.Blend(collabEntries, assocEntries, weights)
		rec := models.Recommendation{PID: pid, Version: version, Algorithm: models.AlgorithmHybrid}
		if err := rec.SetItems(blended); err != nil {
			return nil, pipelineerr.InvariantViolation("RunHybrid", fmt.Sprintf("failed to encode items for %s: %v", pid, err))
		}
		records = append(records, rec)
	}

	if _, err := o.withRetry(ctx, "RunHybrid.BulkUpsert", func() (any, error) {
		return nil, o.repo.BulkUpsert(ctx, records)
	}); err != nil {
		return nil, err
	}
	o.log.BatchLogger("", version, string(StatePersisted))

	catalogSizeAny, err := o.withRetry(ctx, "RunHybrid.CatalogSize", func() (any, error) {
		return o.repo.CatalogSize(ctx)
	})
	if err != nil {
		return nil, err
	}
	quality := evaluateQuality(records, catalogSizeAny.(int))
	o.log.BatchLogger("", version, string(StateValidated))

	return &BatchResult{Version: version, JobType: JobHybrid, State: StateValidated, Quality: quality}, nil
}

func recsByPID(recs []models.Recommendation) map[string]models.Recommendation {
	out := make(map[string]models.Recommendation, len(recs))
	for _, r := range recs {
		out[r.PID] = r
	}
	return out
}

func toSimilarityEntries(rec models.Recommendation) []models.SimilarityEntry {
	items, err := rec.GetItems()
	if err != nil {
		return nil
	}
	entries := make([]models.SimilarityEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, models.SimilarityEntry{OtherPID: item.OtherPID, Score: item.Score})
	}
	return entries
}

// persistValidatePromote is the shared tail of the collaborative and
// association jobs: upsert, validate quality, then promote.
func (o *Orchestrator) persistValidatePromote(ctx context.Context, version string, jobType JobType, records []models.Recommendation) (*BatchResult, error) {
	if _, err := o.withRetry(ctx, "persistValidatePromote.BulkUpsert", func() (any, error) {
		return nil, o.repo.BulkUpsert(ctx, records)
	}); err != nil {
		return nil, err
	}
	o.log.BatchLogger("", version, string(StatePersisted))

	catalogSizeAny, err := o.withRetry(ctx, "persistValidatePromote.CatalogSize", func() (any, error) {
		return o.repo.CatalogSize(ctx)
	})
	if err != nil {
		return nil, err
	}
	quality := evaluateQuality(records, catalogSizeAny.(int))
	o.log.BatchLogger("", version, string(StateValidated))

	if err := o.Promote(ctx, version, quality); err != nil {
		return nil, err
	}
	o.log.BatchLogger("", version, string(StatePromoted))

	o.warmUp(ctx, version, records)
	o.log.BatchLogger("", version, string(StateWarmed))

	return &BatchResult{Version: version, JobType: jobType, State: StateWarmed, Quality: quality}, nil
}
