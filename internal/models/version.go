package models

import "time"

// VersionStatus is a version's position in the rolling current /
// previous / archived history. Exactly one version is Active at any
// moment; at most one Previous; at most one Archived.
type VersionStatus string

const (
	VersionActive   VersionStatus = "active"
	VersionPrevious VersionStatus = "previous"
	VersionArchived VersionStatus = "archived"
)

// QualityMetrics summarizes a version's recommendation set quality, all
// three fields in [0,1]. Zero on an empty recommendation set.
type QualityMetrics struct {
	AvgScore  float64 `json:"avg_score"`
	Coverage  float64 `json:"coverage"`
	Diversity float64 `json:"diversity"`
}

// VersionMetadata is the persisted record for one version tag.
type VersionMetadata struct {
	Version        string         `gorm:"primaryKey;column:version" json:"version"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
	Status         VersionStatus  `gorm:"column:status" json:"status"`
	QualityMetrics QualityMetrics `gorm:"-" json:"quality_metrics"`
	QualityJSON    string         `gorm:"column:quality_json" json:"-"`
}

// TableName overrides gorm's pluralization to keep the schema name
// stable.
func (VersionMetadata) TableName() string { return "version_metadata" }

// Registry key names used by the core, per spec §4.6/§6.
const (
	KeyCurrentVersion  = "rec:current_version"
	KeyPreviousVersion = "rec:previous_version"
	KeyArchivedVersion = "rec:archived_version"
	KeyBatchVersion    = "rec:batch_version"
)

// VersionMetadataKey is the registry key holding a version's metadata.
func VersionMetadataKey(version string) string {
	return "rec:version:" + version
}

// HotCacheKey is the registry key holding a pre-materialized record for
// a (pid, version) pair.
func HotCacheKey(pid, version string) string {
	return "recs:" + pid + ":" + version
}
