package similarity

import (
	"fmt"
	"runtime/debug"

	"github.com/gammazero/workerpool"

	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/sets"
)

// pairResult is one viable (p,q) pair computed by a worker, reported
// upward for the driver to push into both endpoints' global heaps.
type pairResult struct {
	p, q  string
	score float64
}

// chunkResult is one worker's complete output: every viable pair
// produced by rows in its chunk, unbounded — bounding to TopN happens
// once in the driver's global heaps, since a pair dropped from p's
// local view might still belong in q's top-N.
type chunkResult struct {
	pairs []pairResult
	err   error
}

// computeParallel partitions the outer index range across
// cfg.ParallelWorkers worker-pool tasks, each scanning its rows against
// every later product, then merges all reported pairs into global
// per-product heaps. Matches computeSequential's result exactly.
func (e *Engine) computeParallel(ids []string, incidence Incidence) (result map[string][]models.SimilarityEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parallel similarity worker panic: %v\n%s", r, debug.Stack())
		}
	}()

	workers := e.cfg.ParallelWorkers
	if workers <= 0 {
		workers = 1
	}

	P := len(ids)
	chunkSize := (P + workers - 1) / workers
	if chunkSize == 0 {
		chunkSize = 1
	}

	wp := workerpool.New(workers)
	results := make(chan chunkResult, workers)

	for start := 0; start < P; start += chunkSize {
		end := start + chunkSize
		if end > P {
			end = P
		}
		start, end := start, end
		wp.Submit(func() {
			results <- e.computeChunk(ids, incidence, start, end)
		})
	}
	wp.StopWait()
	close(results)

	heaps := make(map[string]*sets.BoundedHeap, len(ids))
	for _, pid := range ids {
		heaps[pid] = sets.NewBoundedHeap(e.cfg.TopN)
	}

	for chunk := range results {
		if chunk.err != nil {
			return nil, chunk.err
		}
		for _, pr := range chunk.pairs {
			heaps[pr.p].Push(pr.q, pr.score)
			heaps[pr.q].Push(pr.p, pr.score)
		}
	}

	return drainHeaps(ids, heaps), nil
}

// computeChunk scans rows [start,end) against every later product,
// applying the same pruning rules as the sequential path.
func (e *Engine) computeChunk(ids []string, incidence Incidence, start, end int) chunkResult {
	var pairs []pairResult
	for i := start; i < end; i++ {
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
			pairs = append(pairs, pairResult{p: pi, q: pj, score: score})
		}
	}
	return chunkResult{pairs: pairs}
}
