package registry

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iaros/recoengine/internal/models"
)

// WarmCache is the process-local front for hot-cache entries the
// orchestrator materialized during a promotion's warm-up step (spec.md
// §4.5: "warm up to 100 products"). The same records are also written
// to the Registry under their hot-cache keys; Get consults only this
// process-local cache and does not read the Registry on a miss.
type WarmCache struct {
	entries *lru.Cache[string, models.Recommendation]
}

// NewWarmCache builds a WarmCache with room for capacity entries.
func NewWarmCache(capacity int) (*WarmCache, error) {
	entries, err := lru.New[string, models.Recommendation](capacity)
	if err != nil {
		return nil, err
	}
	return &WarmCache{entries: entries}, nil
}

// Put stores rec under (pid, version).
func (w *WarmCache) Put(pid, version string, rec models.Recommendation) {
	w.entries.Add(models.HotCacheKey(pid, version), rec)
}

// Get returns the cached recommendation for (pid, version), if present.
func (w *WarmCache) Get(pid, version string) (models.Recommendation, bool) {
	return w.entries.Get(models.HotCacheKey(pid, version))
}

// Len reports how many entries are currently cached.
func (w *WarmCache) Len() int {
	return w.entries.Len()
}
