package orchestrator

import "github.com/iaros/recoengine/internal/models"

// evaluateQuality computes {avg_score, coverage, diversity} over a
// freshly-persisted recommendation set, per spec.md §4.5. All three
// metrics are zero on an empty set.
func evaluateQuality(records []models.Recommendation, catalogSize int) QualityReport {
	report := QualityReport{ProductCount: len(records), CatalogSize: catalogSize}

	var scoreSum float64
	var itemCount int
	consequents := make(map[string]struct{})

	for _, rec := range records {
		items, err := rec.GetItems()
		if err != nil {
			continue
		}
		for _, item := range items {
			scoreSum += item.Score
			itemCount++
			consequents[item.OtherPID] = struct{}{}
		}
	}
	report.ItemCount = itemCount

	if itemCount > 0 {
		report.AvgScore = scoreSum / float64(itemCount)
		report.Diversity = float64(len(consequents)) / float64(itemCount)
	}
	if catalogSize > 0 {
		report.Coverage = float64(len(records)) / float64(catalogSize)
	}
	return report
}
