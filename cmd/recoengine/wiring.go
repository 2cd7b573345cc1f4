package main

import (
	"fmt"

	"github.com/iaros/recoengine/internal/blend"
	"github.com/iaros/recoengine/internal/config"
	"github.com/iaros/recoengine/internal/logging"
	"github.com/iaros/recoengine/internal/mining"
	"github.com/iaros/recoengine/internal/orchestrator"
	"github.com/iaros/recoengine/internal/registry"
	"github.com/iaros/recoengine/internal/repository"
	"github.com/iaros/recoengine/internal/similarity"
)

// app bundles every long-lived dependency the CLI's subcommands need.
// It owns the Postgres and redis connections and must be closed on
// exit.
type app struct {
	cfg  *config.Config
	log  *logging.Logger
	repo *repository.PostgresRepository
	reg  *registry.RedisRegistry
	orch *orchestrator.Orchestrator
}

func newApp(cfgPath string) (*app, error) {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	log := logging.New("recoengine", logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	repo, err := repository.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect repository: %w", err)
	}

	reg, err := registry.Connect(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect registry: %w", err)
	}

	locker := registry.NewRedisLocker(reg.Client())

	warm, err := registry.NewWarmCache(cfg.Algorithm.WarmCacheTopN)
	if err != nil {
		return nil, fmt.Errorf("build warm cache: %w", err)
	}

	simEngine := similarity.New(similarity.Config{
		MinCommon:         cfg.Algorithm.MinCommonUsers,
		TopN:              cfg.Algorithm.TopN,
		ParallelWorkers:   cfg.Algorithm.ParallelWorkers,
		ParallelThreshold: cfg.Algorithm.ParallelThreshold,
		DenseMinProducts:  cfg.Algorithm.DenseMinProducts,
		DenseMaxProducts:  cfg.Algorithm.DenseMaxProducts,
		DenseMinDensity:   cfg.Algorithm.DenseMinDensity,
		DenseMaxDensity:   cfg.Algorithm.DenseMaxDensity,
	}, log)

	miner := mining.New(mining.Config{
		MinSupport:    cfg.Algorithm.MinSupport,
		MinConfidence: cfg.Algorithm.MinConfidence,
		TopN:          cfg.Algorithm.TopN,
	})

	blender := blend.New(cfg.Algorithm.TopN)

	orch := orchestrator.New(repo, reg, locker, warm, simEngine, miner, blender, cfg.Algorithm.TopN, log, cfg.Redis)

	return &app{cfg: cfg, log: log, repo: repo, reg: reg, orch: orch}, nil
}

func (a *app) Close() {
	a.repo.Close()
	a.reg.Close()
}
