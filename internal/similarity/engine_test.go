package similarity

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/sets"
)

func baseConfig() Config {
	return Config{
		MinCommon:         1,
		TopN:              5,
		ParallelWorkers:   4,
		ParallelThreshold: 10000,
		DenseMinProducts:  1000,
		DenseMaxProducts:  5000,
		DenseMinDensity:   0.01,
		DenseMaxDensity:   0.5,
	}
}

// S1 — trivial pair.
func TestComputeSequentialTrivialPair(t *testing.T) {
	incidence := Incidence{
		"P1": newSet("U1", "U2"),
		"P2": newSet("U1", "U2"),
	}
	e := New(baseConfig(), nil)
	result := e.computeSequential(sortedProductIDs(incidence), incidence)

	assertSingleEntry(t, result, "P1", "P2", 1.0)
	assertSingleEntry(t, result, "P2", "P1", 1.0)
}

// S2 — minCommon filter.
func TestComputeSequentialMinCommonFilter(t *testing.T) {
	incidence := Incidence{
		"P1": newSet("U1"),
		"P2": newSet("U1"),
	}
	cfg := baseConfig()
	cfg.MinCommon = 2
	e := New(cfg, nil)
	result := e.computeSequential(sortedProductIDs(incidence), incidence)

	assert.Empty(t, result["P1"])
	assert.Empty(t, result["P2"])
	_, ok := result["P1"]
	assert.True(t, ok, "expected P1 present with empty list")
}

// S3 — Jaccard arithmetic.
func TestComputeSequentialJaccardArithmetic(t *testing.T) {
	incidence := Incidence{
		"P1": newSet("U1", "U2", "U3"),
		"P2": newSet("U1", "U2", "U4"),
	}
	e := New(baseConfig(), nil)
	result := e.computeSequential(sortedProductIDs(incidence), incidence)

	assertSingleEntry(t, result, "P1", "P2", 0.5)
}

func TestComputeNeverListsSelf(t *testing.T) {
	incidence := Incidence{
		"P1": newSet("U1", "U2"),
		"P2": newSet("U1", "U2"),
		"P3": newSet("U1"),
	}
	e := New(baseConfig(), nil)
	result := e.computeSequential(sortedProductIDs(incidence), incidence)

	for pid, entries := range result {
		for _, entry := range entries {
			assert.NotEqualf(t, pid, entry.OtherPID, "product %s lists itself", pid)
		}
	}
}

func TestComputeEmptyIncidenceIsEmptyNotError(t *testing.T) {
	e := New(baseConfig(), nil)
	result := e.Compute(Incidence{})
	assert.Empty(t, result)
}

func TestComputeBoundByTopN(t *testing.T) {
	incidence := Incidence{}
	// P0 shares at least one buyer with every other product.
	incidence["P0"] = newSet("U0")
	for i := 1; i <= 10; i++ {
		incidence[productID(i)] = newSet("U0")
	}
	cfg := baseConfig()
	cfg.TopN = 3
	cfg.MinCommon = 1
	e := New(cfg, nil)
	result := e.computeSequential(sortedProductIDs(incidence), incidence)

	assert.LessOrEqual(t, len(result["P0"]), 3, "list length exceeds TopN")
}

func TestDenseMatchesSequential(t *testing.T) {
	incidence := Incidence{
		"P1": newSet("U1", "U2", "U3"),
		"P2": newSet("U1", "U2", "U4"),
		"P3": newSet("U5"),
	}
	cfg := baseConfig()
	e := New(cfg, nil)
	ids := sortedProductIDs(incidence)

	rowSums := make([]int, len(ids))
	for i, pid := range ids {
		rowSums[i] = incidence[pid].Len()
	}

	seq := e.computeSequential(ids, incidence)
	dense, err := e.computeDense(ids, incidence, rowSums)
	require.NoError(t, err)

	for pid := range seq {
		assert.Equalf(t, seq[pid], dense[pid], "product %s: sequential vs dense mismatch", pid)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	incidence := Incidence{}
	for i := 0; i < 40; i++ {
		incidence[productID(i)] = newSet("U0", buyerID(i))
	}
	cfg := baseConfig()
	cfg.ParallelWorkers = 4
	e := New(cfg, nil)
	ids := sortedProductIDs(incidence)

	seq := e.computeSequential(ids, incidence)
	par, err := e.computeParallel(ids, incidence)
	require.NoError(t, err)

	for pid := range seq {
		assert.Equalf(t, seq[pid], par[pid], "product %s: sequential vs parallel mismatch", pid)
	}
}

func newSet(ids ...string) sets.SortedSet {
	return sets.NewSortedSet(ids)
}

func productID(i int) string {
	return "P" + strconv.Itoa(i)
}

func buyerID(i int) string {
	return "U" + strconv.Itoa(i)
}

func assertSingleEntry(t *testing.T, result map[string][]models.SimilarityEntry, pid, otherPID string, score float64) {
	t.Helper()
	entries, ok := result[pid]
	if assert.True(t, ok) && assert.Len(t, entries, 1) {
		assert.Equal(t, otherPID, entries[0].OtherPID)
		assert.Equal(t, score, entries[0].Score)
	}
}
