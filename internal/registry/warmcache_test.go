package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/recoengine/internal/models"
)

func TestWarmCachePutGet(t *testing.T) {
	wc, err := NewWarmCache(10)
	require.NoError(t, err)

	rec := models.Recommendation{PID: "P1", Version: "v1", Algorithm: models.AlgorithmHybrid}
	wc.Put("P1", "v1", rec)

	got, ok := wc.Get("P1", "v1")
	require.True(t, ok, "expected hit after Put")
	assert.Equal(t, "P1", got.PID)
	assert.Equal(t, "v1", got.Version)
}

func TestWarmCacheMiss(t *testing.T) {
	wc, err := NewWarmCache(10)
	require.NoError(t, err)

	_, ok := wc.Get("missing", "v1")
	assert.False(t, ok, "expected miss for absent key")
}

func TestWarmCacheEvictsBeyondCapacity(t *testing.T) {
	wc, err := NewWarmCache(2)
	require.NoError(t, err)

	wc.Put("P1", "v1", models.Recommendation{PID: "P1", Version: "v1"})
	wc.Put("P2", "v1", models.Recommendation{PID: "P2", Version: "v1"})
	wc.Put("P3", "v1", models.Recommendation{PID: "P3", Version: "v1"})

	assert.Equal(t, 2, wc.Len(), "capacity bound")
	// P1 was least recently used and should have been evicted.
	_, ok := wc.Get("P1", "v1")
	assert.False(t, ok, "expected P1 to be evicted under capacity pressure")
}
