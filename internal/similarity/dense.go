package similarity

import (
	"fmt"
	"math/bits"

	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/sets"
)

// computeDense builds the P x M binary incidence matrix as per-row
// bitsets (G = X . X^T reduces to a popcount of the bitwise AND of two
// rows, the bitset encoding of a binary dot product) and computes
// every pairwise intersection count directly, instead of the sparse
// merge-join. Falls back to the caller's sequential path on any
// allocation failure.
func (e *Engine) computeDense(ids []string, incidence Incidence, rowSums []int) (result map[string][]models.SimilarityEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverToError(r)
		}
	}()

	buyerIndex := make(map[string]int)
	for _, pid := range ids {
		for _, uid := range incidence[pid] {
			if _, ok := buyerIndex[uid]; !ok {
				buyerIndex[uid] = len(buyerIndex)
			}
		}
	}

	M := len(buyerIndex)
	words := (M + 63) / 64
	rows := make([][]uint64, len(ids))
	for i, pid := range ids {
		row := make([]uint64, words)
		for _, uid := range incidence[pid] {
			idx := buyerIndex[uid]
			row[idx/64] |= 1 << uint(idx%64)
		}
		rows[i] = row
	}

	heaps := make(map[string]*sets.BoundedHeap, len(ids))
	for _, pid := range ids {
		heaps[pid] = sets.NewBoundedHeap(e.cfg.TopN)
	}

	for i := 0; i < len(ids); i++ {
		if rowSums[i] < e.cfg.MinCommon {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			if rowSums[j] < e.cfg.MinCommon {
				continue
			}
			intersection := popcountAnd(rows[i], rows[j])
			if intersection < e.cfg.MinCommon {
				continue
			}
			union := rowSums[i] + rowSums[j] - intersection
			score := float64(intersection) / float64(union)
			heaps[ids[i]].Push(ids[j], score)
			heaps[ids[j]].Push(ids[i], score)
		}
	}

	return drainHeaps(ids, heaps), nil
}

func popcountAnd(a, b []uint64) int {
	count := 0
	for i := range a {
		count += bits.OnesCount64(a[i] & b[i])
	}
	return count
}

func recoverToError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("dense similarity path panic: %v", r)
}
