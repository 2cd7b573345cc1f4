// Package repository is the typed read/write boundary to the catalog,
// order, and recommendation stores (C6). Repository is specified by
// interface in spec.md §4.6; Postgres is this repo's one concrete
// implementation.
package repository

import (
	"context"

	"github.com/iaros/recoengine/internal/models"
)

// Repository is the facade the orchestrator drives its batches
// through: order/catalog reads for the compute phase, and
// recommendation upserts for the persist phase.
type Repository interface {
	// ListOrders returns every order in the store. Quantities and
	// prices are not modeled; only buyer id and product set matter.
	ListOrders(ctx context.Context) ([]models.Order, error)

	// CatalogSize returns the total product count.
	CatalogSize(ctx context.Context) (int, error)

	// ListCatalog returns up to limit products (limit <= 0 means all).
	ListCatalog(ctx context.Context, limit int) ([]models.Product, error)

	// FindRec returns the recommendation for (pid, version), or nil if
	// absent.
	FindRec(ctx context.Context, pid, version string) (*models.Recommendation, error)

	// FindByVersion returns every recommendation persisted under
	// version.
	FindByVersion(ctx context.Context, version string, algorithm models.Algorithm) ([]models.Recommendation, error)

	// BulkUpsert writes records idempotently, keyed by (pid, version).
	BulkUpsert(ctx context.Context, records []models.Recommendation) error

	// DeleteByVersion removes every recommendation persisted under
	// version.
	DeleteByVersion(ctx context.Context, version string) error

	// CountByVersion returns the number of recommendations persisted
	// under version.
	CountByVersion(ctx context.Context, version string) (int64, error)

	// SaveVersionMetadata durably records a version's quality metrics
	// and status, independent of the registry's own copy under
	// rec:version:<v>.
	SaveVersionMetadata(ctx context.Context, meta models.VersionMetadata) error
}
