package similarity

import (
	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/sets"
)

// computeSequential runs the upper-triangle pairwise scan described in
// §4.2: visits (i,j) with i<j exactly once, applying the three pruning
// rules in order, and pushes symmetric updates into both endpoints'
// heaps.
func (e *Engine) computeSequential(ids []string, incidence Incidence) map[string][]models.SimilarityEntry {
	heaps := make(map[string]*sets.BoundedHeap, len(ids))
	for _, pid := range ids {
		heaps[pid] = sets.NewBoundedHeap(e.cfg.TopN)
	}

	for i := 0; i < len(ids); i++ {
		pi := ids[i]
		ui := incidence[pi]
		if ui.Len() < e.cfg.MinCommon {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			pj := ids[j]
			uj := incidence[pj]
			if uj.Len() < e.cfg.MinCommon {
				continue
			}

			intersection, earlyExit := ui.IntersectWithEarlyExit(uj, e.cfg.MinCommon)
			if earlyExit {
				continue
			}

			union := ui.Len() + uj.Len() - intersection
			score := float64(intersection) / float64(union)

			heaps[pi].Push(pj, score)
			heaps[pj].Push(pi, score)
		}
	}

	return drainHeaps(ids, heaps)
}
