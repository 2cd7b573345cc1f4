package models

import (
	"encoding/json"
	"time"
)

// Algorithm tags which computation produced a Recommendation record.
type Algorithm string

const (
	AlgorithmCollaborative Algorithm = "collaborative"
	AlgorithmAssociation   Algorithm = "association"
	AlgorithmHybrid        Algorithm = "hybrid"
)

// Weights is the active collaborative/association weight split used to
// produce a blended score. Always sums to 1.0.
type Weights struct {
	Collaborative float64 `json:"collaborative"`
	Association   float64 `json:"association"`
}

// ScoreBreakdown records, per consequent, the per-channel raw scores
// (optional — absent when that channel had no entry), the blended
// score, and the weights used to produce it.
type ScoreBreakdown struct {
	Collaborative *float64 `json:"collaborative,omitempty"`
	Association   *float64 `json:"association,omitempty"`
	BlendedScore  float64  `json:"blended_score"`
	Weights       Weights  `json:"weights"`
}

// RecommendationItem is one entry in a Recommendation's ordered list:
// a candidate product, its score under the record's algorithm, and the
// breakdown that produced it.
type RecommendationItem struct {
	OtherPID  string         `json:"other_pid"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Recommendation is the persisted unit of the engine's output: for a
// source product, under one algorithm and one version, an ordered list
// of at most TopN candidates, descending by score, never containing
// the source product itself.
type Recommendation struct {
	PID       string    `gorm:"primaryKey;column:pid"`
	Version   string    `gorm:"primaryKey;column:version"`
	Algorithm Algorithm `gorm:"column:algorithm;index"`
	Items     string    `gorm:"column:items"` // JSON-encoded []RecommendationItem
	BatchID   string    `gorm:"column:batch_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides gorm's pluralization to keep the schema name
// stable.
func (Recommendation) TableName() string { return "recommendations" }

// GetItems decodes the JSON-encoded item list. Stored as JSON rather
// than a child table because item order is semantically significant
// and the fleet's child-table convention has no sort column for this
// shape of data.
func (r *Recommendation) GetItems() ([]RecommendationItem, error) {
	if r.Items == "" {
		return nil, nil
	}
	var items []RecommendationItem
	if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems encodes and stores the item list.
func (r *Recommendation) SetItems(items []RecommendationItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.Items = string(data)
	return nil
}
