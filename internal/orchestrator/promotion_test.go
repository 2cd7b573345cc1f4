package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iaros/recoengine/internal/blend"
	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/logging"
	"github.com/iaros/recoengine/internal/mining"
	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/similarity"
)

func newTestOrchestrator(t *testing.T, reg *fakeRegistry, repo *fakeRepository) *Orchestrator {
	t.Helper()
	log := logging.New("recoengine-test")
	simEngine := similarity.New(similarity.Config{MinCommon: 1, TopN: 10, ParallelThreshold: 1 << 30}, log)
	miner := mining.New(mining.Config{MinSupport: 0, MinConfidence: 0, TopN: 10})
	blender := blend.New(10)
	return New(repo, reg, fakeLocker{}, nil, simEngine, miner, blender, 10, log, config.Default().Redis)
}

// TestPromotionRotation exercises scenario S6 from spec.md §8.
func TestPromotionRotation(t *testing.T) {
	ctx := context.Background()
	reg := newFakeRegistry()
	repo := newFakeRepository()
	o := newTestOrchestrator(t, reg, repo)

	require.NoError(t, reg.Put(ctx, models.KeyCurrentVersion, "v1", 0))

	require.NoError(t, o.Promote(ctx, "v2", QualityReport{}))
	assertPointer(t, ctx, reg, models.KeyCurrentVersion, "v2")
	assertPointer(t, ctx, reg, models.KeyPreviousVersion, "v1")

	require.NoError(t, o.Promote(ctx, "v3", QualityReport{}))
	assertPointer(t, ctx, reg, models.KeyCurrentVersion, "v3")
	assertPointer(t, ctx, reg, models.KeyPreviousVersion, "v2")
	assertPointer(t, ctx, reg, models.KeyArchivedVersion, "v1")

	require.NoError(t, o.Rollback(ctx))
	assertPointer(t, ctx, reg, models.KeyCurrentVersion, "v2")
	assertPointer(t, ctx, reg, models.KeyPreviousVersion, "v3")
}

// TestRollbackIsIdempotentAcrossTwoCalls exercises §8 property 9: two
// consecutive rollbacks return the pointers to their original state.
func TestRollbackIsIdempotentAcrossTwoCalls(t *testing.T) {
	ctx := context.Background()
	reg := newFakeRegistry()
	repo := newFakeRepository()
	o := newTestOrchestrator(t, reg, repo)

	reg.Put(ctx, models.KeyCurrentVersion, "v3", 0)
	reg.Put(ctx, models.KeyPreviousVersion, "v2", 0)

	require.NoError(t, o.Rollback(ctx))
	require.NoError(t, o.Rollback(ctx))
	assertPointer(t, ctx, reg, models.KeyCurrentVersion, "v3")
	assertPointer(t, ctx, reg, models.KeyPreviousVersion, "v2")
}

func assertPointer(t *testing.T, ctx context.Context, reg *fakeRegistry, key, want string) {
	t.Helper()
	got, ok, err := reg.Get(ctx, key)
	require.NoError(t, err)
	require.Truef(t, ok, "Get(%s): not found, want %q", key, want)
	require.Equalf(t, want, got, "Get(%s)", key)
}
