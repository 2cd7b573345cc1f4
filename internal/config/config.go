// Package config loads and validates the recommendation engine's runtime
// configuration: algorithm parameters, storage endpoints, the kafka
// trigger, cron schedule and feature-extractor settings, and ambient
// logging settings, following the same nested-YAML
// layout the rest of the fleet uses.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration object loaded from YAML with
// environment-variable overrides applied on top.
type Config struct {
	Algorithm AlgorithmConfig `yaml:"algorithm" validate:"required"`
	Database  DatabaseConfig  `yaml:"database" validate:"required"`
	Redis     RedisConfig     `yaml:"redis" validate:"required"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Features  FeaturesConfig  `yaml:"features"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AlgorithmConfig holds the tunable parameters named in the external
// interfaces of the engine: similarity thresholds, rule-mining
// thresholds, and the dense/parallel path selection knobs.
type AlgorithmConfig struct {
	MinCommonUsers    int     `yaml:"min_common_users" validate:"gte=1"`
	TopN              int     `yaml:"top_n" validate:"gte=1"`
	MinSupport        float64 `yaml:"min_support" validate:"gte=0,lte=1"`
	MinConfidence     float64 `yaml:"min_confidence" validate:"gte=0,lte=1"`
	ParallelWorkers   int     `yaml:"parallel_workers" validate:"gte=1"`
	ParallelThreshold int     `yaml:"parallel_threshold" validate:"gte=1"`
	DenseMinProducts  int     `yaml:"dense_min_products" validate:"gte=1"`
	DenseMaxProducts  int     `yaml:"dense_max_products" validate:"gtefield=DenseMinProducts"`
	DenseMinDensity   float64 `yaml:"dense_min_density" validate:"gte=0,lte=1"`
	DenseMaxDensity   float64 `yaml:"dense_max_density" validate:"gtefield=DenseMinDensity,lte=1"`
	NewProductBoost   float64 `yaml:"new_product_boost" validate:"gte=1"`
	WarmCacheTopN     int     `yaml:"warm_cache_top_n" validate:"gte=0"`
}

// DatabaseConfig is the Postgres connection configuration for the
// repository facade.
type DatabaseConfig struct {
	Host               string        `yaml:"host" validate:"required"`
	Port               int           `yaml:"port" validate:"required"`
	User               string        `yaml:"user" validate:"required"`
	Password           string        `yaml:"password"`
	DatabaseName       string        `yaml:"dbname" validate:"required"`
	SSLMode            string        `yaml:"sslmode"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig is the connection configuration for the version registry
// and hot-cache.
type RedisConfig struct {
	Addr               string        `yaml:"addr" validate:"required"`
	Password           string        `yaml:"password"`
	DB                 int           `yaml:"db"`
	BatchVersionTTL    time.Duration `yaml:"batch_version_ttl"`
	HotCacheTTL        time.Duration `yaml:"hot_cache_ttl"`
	PromotionLockTTL   time.Duration `yaml:"promotion_lock_ttl"`
}

// KafkaConfig configures the trigger-signal consumer.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// ScheduleConfig configures the periodic batch-trigger cron schedule.
type ScheduleConfig struct {
	CollaborativeCron string `yaml:"collaborative_cron"`
	AssociationCron   string `yaml:"association_cron"`
	HybridCron        string `yaml:"hybrid_cron"`
}

// FeaturesConfig configures the optional numeric-feature extractor
// collaborator.
type FeaturesConfig struct {
	Enabled        bool          `yaml:"enabled"`
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	RetryCount     int           `yaml:"retry_count"`
	BreakerTimeout time.Duration `yaml:"breaker_timeout"`
}

// LoggingConfig configures the ambient structured logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	OutputPath string `yaml:"output_path"`
}

// Default returns a configuration with production-reasonable defaults,
// matching the thresholds named in spec §4.2/§6.
func Default() *Config {
	return &Config{
		Algorithm: AlgorithmConfig{
			MinCommonUsers:    2,
			TopN:              10,
			MinSupport:        0.01,
			MinConfidence:     0.1,
			ParallelWorkers:   8,
			ParallelThreshold: 10000,
			DenseMinProducts:  1000,
			DenseMaxProducts:  5000,
			DenseMinDensity:   0.01,
			DenseMaxDensity:   0.5,
			NewProductBoost:   1.0,
			WarmCacheTopN:     100,
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "postgres"),
			Password:           getEnv("DB_PASSWORD", ""),
			DatabaseName:       getEnv("DB_NAME", "recoengine"),
			SSLMode:            getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:     25,
			MaxIdleConnections: 5,
			ConnMaxLifetime:    5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:             getEnv("REDIS_ADDR", "localhost:6379"),
			Password:         getEnv("REDIS_PASSWORD", ""),
			DB:               getEnvInt("REDIS_DB", 0),
			BatchVersionTTL:  time.Hour,
			HotCacheTTL:      4 * time.Hour,
			PromotionLockTTL: 10 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   "rec.batch.trigger",
			GroupID: "recoengine",
		},
		Schedule: ScheduleConfig{
			CollaborativeCron: "0 */4 * * *",
			AssociationCron:   "15 */4 * * *",
			HybridCron:        "30 */4 * * *",
		},
		Features: FeaturesConfig{
			Enabled:        false,
			Timeout:        5 * time.Second,
			RetryCount:     2,
			BreakerTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}

// Load reads a YAML configuration file, merges it onto Default, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
