// Package similarity implements the item-item collaborative-similarity
// engine: Jaccard similarity over a product x buyer incidence, with a
// sequential sparse path, a worker-parallel sparse path, and an
// optional dense-matrix fast path. All three paths are contractually
// required to agree on their output (§8 property 10, determinism).
package similarity

import (
	"sort"

	"github.com/iaros/recoengine/internal/logging"
	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/sets"
)

// Config carries the tunable parameters controlling path selection and
// pruning, named in the external interfaces of the engine.
type Config struct {
	MinCommon         int
	TopN              int
	ParallelWorkers   int
	ParallelThreshold int // P >= this selects the worker-parallel path
	DenseMinProducts  int
	DenseMaxProducts  int
	DenseMinDensity   float64
	DenseMaxDensity   float64
}

// Incidence is the product -> buyer-set mapping the engine computes
// similarity over. Built once per batch from the order stream.
type Incidence map[string]sets.SortedSet

// BuildIncidence derives U(p) for every product mentioned in orders:
// the set of buyers who purchased it in any order.
func BuildIncidence(orders []models.Order) Incidence {
	buyers := make(map[string]map[string]struct{})
	for _, o := range orders {
		for _, pid := range o.ProductIDs() {
			set, ok := buyers[pid]
			if !ok {
				set = make(map[string]struct{})
				buyers[pid] = set
			}
			set[o.UID] = struct{}{}
		}
	}

	incidence := make(Incidence, len(buyers))
	for pid, set := range buyers {
		ids := make([]string, 0, len(set))
		for uid := range set {
			ids = append(ids, uid)
		}
		incidence[pid] = sets.NewSortedSet(ids)
	}
	return incidence
}

// Engine drives path selection and produces the per-product top-N
// similarity lists for an incidence map.
type Engine struct {
	cfg    Config
	logger *logging.Logger
}

// New constructs an Engine with the given configuration.
func New(cfg Config, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Global()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Compute returns, for every product present in incidence, a
// (possibly empty) top-N similarity list. An empty incidence produces
// an empty result map — not an error (§7, input degeneracy).
func (e *Engine) Compute(incidence Incidence) map[string][]models.SimilarityEntry {
	if len(incidence) == 0 {
		return map[string][]models.SimilarityEntry{}
	}

	ids := sortedProductIDs(incidence)
	rowSums := make([]int, len(ids))
	buyers := make(map[string]struct{})
	for i, pid := range ids {
		rowSums[i] = incidence[pid].Len()
		for _, uid := range incidence[pid] {
			buyers[uid] = struct{}{}
		}
	}

	P := len(ids)
	M := len(buyers)

	if e.cfg.ParallelThreshold > 0 && P >= e.cfg.ParallelThreshold {
		result, err := e.computeParallel(ids, incidence)
		if err != nil {
			e.logger.WithError(err).Warn("parallel similarity path failed, falling back to sequential sparse path")
			return e.computeSequential(ids, incidence)
		}
		return result
	}

	if e.shouldUseDense(P, M, rowSums) {
		result, err := e.computeDense(ids, incidence, rowSums)
		if err != nil {
			e.logger.WithError(err).Warn("dense similarity path failed, falling back to sequential sparse path")
			return e.computeSequential(ids, incidence)
		}
		return result
	}

	return e.computeSequential(ids, incidence)
}

// shouldUseDense reports whether the dense fast-path preconditions
// hold: product count in range and incidence density in range.
func (e *Engine) shouldUseDense(p, m int, rowSums []int) bool {
	if e.cfg.DenseMinProducts <= 0 || e.cfg.DenseMaxProducts <= 0 {
		return false
	}
	if p < e.cfg.DenseMinProducts || p > e.cfg.DenseMaxProducts {
		return false
	}
	if m == 0 {
		return false
	}
	total := 0
	for _, s := range rowSums {
		total += s
	}
	density := float64(total) / (float64(p) * float64(m))
	return density > e.cfg.DenseMinDensity && density < e.cfg.DenseMaxDensity
}

func sortedProductIDs(incidence Incidence) []string {
	ids := make([]string, 0, len(incidence))
	for pid := range incidence {
		ids = append(ids, pid)
	}
	sort.Strings(ids)
	return ids
}

// drainHeaps converts per-product bounded heaps into the engine's
// output shape. Every product gets a key; a product whose heap is
// empty gets an empty list.
func drainHeaps(ids []string, heaps map[string]*sets.BoundedHeap) map[string][]models.SimilarityEntry {
	out := make(map[string][]models.SimilarityEntry, len(ids))
	for _, pid := range ids {
		h := heaps[pid]
		items := h.Drain()
		entries := make([]models.SimilarityEntry, len(items))
		for i, it := range items {
			entries[i] = models.SimilarityEntry{OtherPID: it.ID, Score: it.Score}
		}
		out[pid] = entries
	}
	return out
}
