package sets

import (
	"container/heap"
	"sort"
)

// ScoredItem is one (id, score) pair as tracked by a BoundedHeap.
type ScoredItem struct {
	ID    string
	Score float64
}

// BoundedHeap retains the N highest-scored items pushed into it. It is
// a min-heap internally (so the current minimum is always evictable in
// O(log N)), but callers only ever observe it through Push and Drain.
//
// Tie-break: items are ordered primarily by ascending score; among
// equal scores, the item with the lexicographically smaller id sorts
// first (and is therefore evicted first), so that the surviving item
// on a tie is the one with the larger id — matching the descending-id
// secondary key Drain produces.
type BoundedHeap struct {
	capacity int
	items    minHeap
}

// NewBoundedHeap creates a heap retaining at most capacity items.
func NewBoundedHeap(capacity int) *BoundedHeap {
	return &BoundedHeap{capacity: capacity, items: make(minHeap, 0, capacity)}
}

// Push offers an item to the heap. Below capacity, it is always kept.
// At capacity, it replaces the current minimum iff it scores higher,
// or scores equal and has the larger id, so the retained set does not
// depend on push order.
func (h *BoundedHeap) Push(id string, score float64) {
	item := ScoredItem{ID: id, Score: score}
	if h.capacity <= 0 {
		return
	}
	if len(h.items) < h.capacity {
		heap.Push(&h.items, item)
		return
	}
	if len(h.items) == 0 {
		return
	}
	min := h.items[0]
	if score > min.Score || (score == min.Score && id > min.ID) {
		h.items[0] = item
		heap.Fix(&h.items, 0)
	}
}

// Len reports how many items the heap currently holds.
func (h *BoundedHeap) Len() int { return len(h.items) }

// Drain empties the heap and returns its contents as a descending list:
// by score first, then by descending id for ties.
func (h *BoundedHeap) Drain() []ScoredItem {
	out := make([]ScoredItem, len(h.items))
	copy(out, h.items)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID > out[j].ID
	})
	h.items = h.items[:0]
	return out
}

// minHeap implements container/heap.Interface, ordered ascending by
// score with the id tie-break described on BoundedHeap.
type minHeap []ScoredItem

func (h minHeap) Len() int { return len(h) }
func (h minHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].ID < h[j].ID
}
func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x interface{}) {
	*h = append(*h, x.(ScoredItem))
}

func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
