package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iaros/recoengine/internal/models"
)

func TestEvaluateQualityEmptySetIsAllZero(t *testing.T) {
	report := evaluateQuality(nil, 10)
	assert.Zero(t, report.AvgScore)
	assert.Zero(t, report.Coverage)
	assert.Zero(t, report.Diversity)
}

func TestEvaluateQualityFormulas(t *testing.T) {
	r1 := models.Recommendation{PID: "P1"}
	r1.SetItems([]models.RecommendationItem{
		{OtherPID: "P2", Score: 0.8},
		{OtherPID: "P3", Score: 0.4},
	})
	r2 := models.Recommendation{PID: "P2"}
	r2.SetItems([]models.RecommendationItem{
		{OtherPID: "P3", Score: 0.2},
	})

	report := evaluateQuality([]models.Recommendation{r1, r2}, 4)

	wantAvg := (0.8 + 0.4 + 0.2) / 3
	assert.InDelta(t, wantAvg, report.AvgScore, 1e-9)
	assert.Equal(t, 0.5, report.Coverage, "2 products with recs / 4 catalog")
	wantDiversity := 2.0 / 3.0 // distinct consequents {P2,P3} over 3 items
	assert.InDelta(t, wantDiversity, report.Diversity, 1e-9)
}
