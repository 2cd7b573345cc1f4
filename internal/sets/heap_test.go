package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundedHeapRetainsTopN(t *testing.T) {
	h := NewBoundedHeap(2)
	h.Push("p1", 0.1)
	h.Push("p2", 0.9)
	h.Push("p3", 0.5)

	out := h.Drain()
	assert.Len(t, out, 2, "Drain() should keep only the top 2 entries")
	assert.Equal(t, "p2", out[0].ID)
	assert.Equal(t, "p3", out[1].ID)
}

func TestBoundedHeapDescendingOrder(t *testing.T) {
	h := NewBoundedHeap(5)
	h.Push("p1", 0.2)
	h.Push("p2", 0.8)
	h.Push("p3", 0.5)

	out := h.Drain()
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqualf(t, out[i-1].Score, out[i].Score, "Drain() not descending: %+v", out)
	}
}

func TestBoundedHeapTieBreakDescendingID(t *testing.T) {
	h := NewBoundedHeap(5)
	h.Push("p1", 0.5)
	h.Push("p3", 0.5)
	h.Push("p2", 0.5)

	out := h.Drain()
	if assert.Len(t, out, 3) {
		assert.Equal(t, "p3", out[0].ID)
		assert.Equal(t, "p2", out[1].ID)
		assert.Equal(t, "p1", out[2].ID)
	}
}

func TestBoundedHeapEvictsLowestOnOverflow(t *testing.T) {
	h := NewBoundedHeap(1)
	h.Push("p1", 0.1)
	h.Push("p2", 0.9)

	out := h.Drain()
	if assert.Len(t, out, 1) {
		assert.Equal(t, "p2", out[0].ID)
	}
}
