package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/models"
	"github.com/iaros/recoengine/internal/pipelineerr"
)

// PostgresRepository is the gorm-backed Repository implementation.
type PostgresRepository struct {
	db *gorm.DB
}

// Connect opens a Postgres connection per cfg, tunes the connection
// pool, and verifies connectivity with a ping.
func Connect(cfg config.DatabaseConfig) (*PostgresRepository, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DatabaseName, cfg.SSLMode,
	)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}

	if cfg.MaxConnections > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresRepository{db: gormDB}, nil
}

// AutoMigrate creates or updates the schema for the engine's tables.
// Schema changes beyond the initial shape are expected to arrive as
// golang-migrate migration files under migrations/.
func (r *PostgresRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderProduct{},
		&models.Recommendation{},
		&models.VersionMetadata{},
	)
}

// Close releases the underlying connection pool.
func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListOrders implements Repository.
func (r *PostgresRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Products").Find(&orders).Error
	if err != nil {
		return nil, pipelineerr.ResourceFailure("ListOrders", "failed to load orders", err)
	}
	return orders, nil
}

// CatalogSize implements Repository.
func (r *PostgresRepository) CatalogSize(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, pipelineerr.ResourceFailure("CatalogSize", "failed to count catalog", err)
	}
	return int(count), nil
}

// ListCatalog implements Repository.
func (r *PostgresRepository) ListCatalog(ctx context.Context, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, pipelineerr.ResourceFailure("ListCatalog", "failed to load catalog", err)
	}
	return products, nil
}

// FindRec implements Repository.
func (r *PostgresRepository) FindRec(ctx context.Context, pid, version string) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := r.db.WithContext(ctx).
		Where("pid = ? AND version = ?", pid, version).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pipelineerr.ResourceFailure("FindRec", "failed to load recommendation", err)
	}
	return &rec, nil
}

// FindByVersion implements Repository.
func (r *PostgresRepository) FindByVersion(ctx context.Context, version string, algorithm models.Algorithm) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := r.db.WithContext(ctx).
		Where("version = ? AND algorithm = ?", version, algorithm).
		Find(&recs).Error
	if err != nil {
		return nil, pipelineerr.ResourceFailure("FindByVersion", "failed to load recommendations by version", err)
	}
	return recs, nil
}

// BulkUpsert implements Repository. Idempotent on (pid, version); not
// transactional across keys — the promotion step is the gate that
// makes the batch observable, so per-key atomicity is sufficient.
func (r *PostgresRepository) BulkUpsert(ctx context.Context, records []models.Recommendation) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		err := r.db.WithContext(ctx).
			Where("pid = ? AND version = ?", rec.PID, rec.Version).
			Assign(rec).
			FirstOrCreate(&models.Recommendation{PID: rec.PID, Version: rec.Version}).Error
		if err != nil {
			return pipelineerr.ResourceFailure("BulkUpsert", fmt.Sprintf("failed to upsert %s@%s", rec.PID, rec.Version), err)
		}
	}
	return nil
}

// DeleteByVersion implements Repository.
func (r *PostgresRepository) DeleteByVersion(ctx context.Context, version string) error {
	err := r.db.WithContext(ctx).Where("version = ?", version).Delete(&models.Recommendation{}).Error
	if err != nil {
		return pipelineerr.ResourceFailure("DeleteByVersion", "failed to delete version", err)
	}
	return nil
}

// CountByVersion implements Repository.
func (r *PostgresRepository) CountByVersion(ctx context.Context, version string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recommendation{}).Where("version = ?", version).Count(&count).Error
	if err != nil {
		return 0, pipelineerr.ResourceFailure("CountByVersion", "failed to count version", err)
	}
	return count, nil
}

// SaveVersionMetadata implements Repository.
func (r *PostgresRepository) SaveVersionMetadata(ctx context.Context, meta models.VersionMetadata) error {
	data, err := json.Marshal(meta.QualityMetrics)
	if err != nil {
		return pipelineerr.InvariantViolation("SaveVersionMetadata", fmt.Sprintf("failed to encode quality metrics: %v", err))
	}
	meta.QualityJSON = string(data)

	err = r.db.WithContext(ctx).
		Where("version = ?", meta.Version).
		Assign(meta).
		FirstOrCreate(&models.VersionMetadata{Version: meta.Version}).Error
	if err != nil {
		return pipelineerr.ResourceFailure("SaveVersionMetadata", fmt.Sprintf("failed to upsert metadata for %s", meta.Version), err)
	}
	return nil
}
