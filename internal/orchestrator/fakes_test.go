package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/iaros/recoengine/internal/models"
)

// fakeRegistry is an in-memory Registry for orchestrator tests. It
// does not honor ttl expiry.
type fakeRegistry struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{values: make(map[string]string)}
}

func (r *fakeRegistry) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *fakeRegistry) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *fakeRegistry) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

// fakeLocker runs fn directly; no real contention in tests.
type fakeLocker struct{}

func (fakeLocker) WithLock(ctx context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRepository is an in-memory Repository for orchestrator tests.
type fakeRepository struct {
	mu      sync.Mutex
	orders  []models.Order
	catalog int
	records map[string]models.Recommendation // key: pid|version|algorithm
	meta    map[string]models.VersionMetadata
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		records: make(map[string]models.Recommendation),
		meta:    make(map[string]models.VersionMetadata),
	}
}

func recKey(pid, version string, alg models.Algorithm) string {
	return pid + "|" + version + "|" + string(alg)
}

func (f *fakeRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	return f.orders, nil
}

func (f *fakeRepository) CatalogSize(ctx context.Context) (int, error) {
	return f.catalog, nil
}

func (f *fakeRepository) ListCatalog(ctx context.Context, limit int) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeRepository) FindRec(ctx context.Context, pid, version string) (*models.Recommendation, error) {
	return nil, nil
}

func (f *fakeRepository) FindByVersion(ctx context.Context, version string, algorithm models.Algorithm) ([]models.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Recommendation
	for _, rec := range f.records {
		if rec.Version == version && rec.Algorithm == algorithm {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRepository) BulkUpsert(ctx context.Context, records []models.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range records {
		f.records[recKey(rec.PID, rec.Version, rec.Algorithm)] = rec
	}
	return nil
}

func (f *fakeRepository) DeleteByVersion(ctx context.Context, version string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, rec := range f.records {
		if rec.Version == version {
			delete(f.records, k)
		}
	}
	return nil
}

func (f *fakeRepository) CountByVersion(ctx context.Context, version string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rec := range f.records {
		if rec.Version == version {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepository) SaveVersionMetadata(ctx context.Context, meta models.VersionMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meta[meta.Version] = meta
	return nil
}
