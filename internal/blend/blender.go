// Package blend implements the context-aware hybrid blender: weight
// resolution, per-product merge of collaborative and association
// lists, and breakdown synthesis.
package blend

import (
	"sort"

	"github.com/iaros/recoengine/internal/models"
)

// ResolveWeights implements the weight-resolution table of §4.4: both
// algorithms present split 0.6/0.4 (user has history) or 0.3/0.7
// (no history); only one present takes all the weight; neither
// present degenerates to 0.5/0.5 (the blend of an empty union is
// still empty).
func ResolveWeights(hasCollab, hasAssoc, hasUserHistory bool) models.Weights {
	switch {
	case hasCollab && hasAssoc:
		if hasUserHistory {
			return models.Weights{Collaborative: 0.6, Association: 0.4}
		}
		return models.Weights{Collaborative: 0.3, Association: 0.7}
	case hasCollab:
		return models.Weights{Collaborative: 1.0, Association: 0.0}
	case hasAssoc:
		return models.Weights{Collaborative: 0.0, Association: 1.0}
	default:
		return models.Weights{Collaborative: 0.5, Association: 0.5}
	}
}

// Blender merges collaborative and association candidate lists into a
// single ranked, breakdown-annotated list.
type Blender struct {
	topN int
}

// New constructs a Blender bounding merged output to topN entries.
func New(topN int) *Blender {
	return &Blender{topN: topN}
}

// Blend unions the consequents of collaborative and association, for
// each computing blended = w_c*s_c + w_a*s_a (a missing channel
// contributes zero), recording which channels were present in the
// breakdown, sorts descending by blended score (ties: descending
// consequent id), and truncates to topN.
func (b *Blender) Blend(collaborative, association []models.SimilarityEntry, weights models.Weights) []models.RecommendationItem {
	collabByID := toMap(collaborative)
	assocByID := toMap(association)

	seen := make(map[string]struct{}, len(collabByID)+len(assocByID))
	for q := range collabByID {
		seen[q] = struct{}{}
	}
	for q := range assocByID {
		seen[q] = struct{}{}
	}

	items := make([]models.RecommendationItem, 0, len(seen))
	for q := range seen {
		cScore, hasC := collabByID[q]
		aScore, hasA := assocByID[q]

		blended := weights.Collaborative*valueOr(cScore, hasC) + weights.Association*valueOr(aScore, hasA)

		breakdown := models.ScoreBreakdown{
			BlendedScore: blended,
			Weights:      weights,
		}
		if hasC {
			c := cScore
			breakdown.Collaborative = &c
		}
		if hasA {
			a := aScore
			breakdown.Association = &a
		}

		items = append(items, models.RecommendationItem{
			OtherPID:  q,
			Score:     blended,
			Breakdown: breakdown,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].OtherPID > items[j].OtherPID
	})

	if b.topN > 0 && len(items) > b.topN {
		items = items[:b.topN]
	}
	return items
}

// BoostNewProducts multiplies blendedScore by k (k >= 1) for every item
// whose consequent is in newProducts; other entries are untouched.
// Does not re-sort — callers that need ordering after boosting must
// sort again.
func BoostNewProducts(items []models.RecommendationItem, newProducts map[string]struct{}, k float64) {
	for i := range items {
		if _, ok := newProducts[items[i].OtherPID]; ok {
			items[i].Score *= k
			items[i].Breakdown.BlendedScore *= k
		}
	}
}

func toMap(entries []models.SimilarityEntry) map[string]float64 {
	m := make(map[string]float64, len(entries))
	for _, e := range entries {
		m[e.OtherPID] = e.Score
	}
	return m
}

func valueOr(v float64, present bool) float64 {
	if !present {
		return 0
	}
	return v
}
