package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/recoengine/internal/models"
)

func TestResolveWeightsBothPresentWithHistory(t *testing.T) {
	w := ResolveWeights(true, true, true)
	assert.Equal(t, 0.6, w.Collaborative)
	assert.Equal(t, 0.4, w.Association)
}

func TestResolveWeightsBothPresentNoHistory(t *testing.T) {
	w := ResolveWeights(true, true, false)
	assert.Equal(t, 0.3, w.Collaborative)
	assert.Equal(t, 0.7, w.Association)
}

func TestResolveWeightsOnlyCollaborative(t *testing.T) {
	w := ResolveWeights(true, false, false)
	assert.Equal(t, 1.0, w.Collaborative)
	assert.Equal(t, 0.0, w.Association)
}

func TestResolveWeightsNeitherPresent(t *testing.T) {
	w := ResolveWeights(false, false, false)
	assert.Equal(t, 0.5, w.Collaborative)
	assert.Equal(t, 0.5, w.Association)
}

func TestResolveWeightsAlwaysSumToOne(t *testing.T) {
	for _, hasCollab := range []bool{true, false} {
		for _, hasAssoc := range []bool{true, false} {
			for _, hasHistory := range []bool{true, false} {
				w := ResolveWeights(hasCollab, hasAssoc, hasHistory)
				assert.Equal(t, 1.0, w.Collaborative+w.Association)
			}
		}
	}
}

// S5 — hybrid blend.
func TestBlendMatchesScenario(t *testing.T) {
	collab := []models.SimilarityEntry{{OtherPID: "P1", Score: 0.8}, {OtherPID: "P2", Score: 0.9}}
	assoc := []models.SimilarityEntry{{OtherPID: "P1", Score: 0.7}, {OtherPID: "P3", Score: 0.8}}
	weights := models.Weights{Collaborative: 0.6, Association: 0.4}

	b := New(10)
	items := b.Blend(collab, assoc, weights)

	require.Len(t, items, 3)
	// Sorted descending by blended score: P1 (0.76), P2 (0.54, collab-only), P3 (0.32, assoc-only).
	assert.Equal(t, "P1", items[0].OtherPID)
	assert.InDelta(t, 0.76, items[0].Score, 1e-9)
	assert.Equal(t, "P2", items[1].OtherPID)
	assert.InDelta(t, 0.54, items[1].Score, 1e-9)
	assert.Equal(t, "P3", items[2].OtherPID)
	assert.InDelta(t, 0.32, items[2].Score, 1e-9)

	assert.Nil(t, items[1].Breakdown.Association, "P2 breakdown should omit association channel")
	assert.Nil(t, items[2].Breakdown.Collaborative, "P3 breakdown should omit collaborative channel")
	for _, it := range items {
		assert.Equal(t, weights, it.Breakdown.Weights)
	}
}

func TestBoostNewProductsDoesNotResort(t *testing.T) {
	items := []models.RecommendationItem{
		{OtherPID: "P1", Score: 0.9, Breakdown: models.ScoreBreakdown{BlendedScore: 0.9}},
		{OtherPID: "P2", Score: 0.1, Breakdown: models.ScoreBreakdown{BlendedScore: 0.1}},
	}
	BoostNewProducts(items, map[string]struct{}{"P2": {}}, 5.0)

	assert.Equal(t, 0.5, items[1].Score)
	assert.Equal(t, "P1", items[0].OtherPID, "boost must not resort the slice")
}
