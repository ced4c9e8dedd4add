// Package control assembles the sync service from its components and
// manages their lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/welldatalabs/wellsync/internal/core/config"
	"github.com/welldatalabs/wellsync/internal/core/worker"
	"github.com/welldatalabs/wellsync/internal/health"
	"github.com/welldatalabs/wellsync/internal/infra/api"
	redisclient "github.com/welldatalabs/wellsync/internal/infra/redis"
	"github.com/welldatalabs/wellsync/internal/infra/storage"
	"github.com/welldatalabs/wellsync/internal/infra/storage/memory"
	"github.com/welldatalabs/wellsync/internal/infra/storage/postgres"
	"github.com/welldatalabs/wellsync/internal/infra/storage/sqlite"
	"github.com/welldatalabs/wellsync/internal/syncing"
)

// Service is the main application struct that wires the API client, the
// header store, the cycle runner, and the health server together.
type Service struct {
	cfg          *config.AppConfig
	runner       *syncing.Runner
	store        storage.HeaderRepository
	redisClient  *redisclient.Client
	healthMon    *health.Monitor
	healthServer *health.Server
	pruner       *worker.Pruner
	log          *slog.Logger
}

// NewService creates a Service with all dependencies initialized.
func NewService(ctx context.Context, cfg *config.AppConfig) (*Service, error) {
	log := slog.Default()

	store, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	token, err := cfg.API.ResolveToken()
	if err != nil {
		return nil, fmt.Errorf("resolve api token: %w", err)
	}
	client, err := api.NewClient(cfg.API.BaseURL, token, api.FetchConfig{
		MaxAttempts:  cfg.API.MaxAttempts,
		DefaultDelay: cfg.API.DefaultDelay.Std(),
	}, cfg.API.Timeout.Std())
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	var (
		redisClient *redisclient.Client
		queue       *redisclient.FailedQueue
		queueCount  health.QueueCounter
		runnerQueue syncing.FailedQueue
	)
	if cfg.Redis.URL != "" {
		redisClient, err = redisclient.NewClient(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			// The queue only improves retry ordering; sync works without it.
			log.Warn("redis unavailable, failed-download queue disabled", "error", err)
		} else {
			queue = redisclient.NewFailedQueue(redisClient)
			queueCount = queue
			runnerQueue = queue
		}
	}

	runner := syncing.NewRunner(syncing.Config{
		PacingDelay:    cfg.API.PacingDelay.Std(),
		ArtifactDir:    cfg.Sync.ArtifactDir,
		WriteRaw:       cfg.Sync.WriteRaw,
		WriteFormatted: cfg.Sync.WriteFormatted,
		WriteUnits:     cfg.Sync.WriteUnits,
	}, client, store, runnerQueue, log)

	// A cycle is stale once three intervals pass without one completing.
	monitor := health.NewMonitor(store, queueCount, 3*cfg.Sync.Interval.Std())

	return &Service{
		cfg:          cfg,
		runner:       runner,
		store:        store,
		redisClient:  redisClient,
		healthMon:    monitor,
		healthServer: health.NewServer(monitor, cfg.Server.Port),
		pruner:       worker.NewPruner(cfg.Sync.ArtifactDir, cfg.Sync.ArtifactRetention.Std(), log),
		log:          log,
	}, nil
}

// OpenStore opens the header store backend selected by cfg: a non-empty
// URL means PostgreSQL, a non-empty Path means SQLite, otherwise memory.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (storage.HeaderRepository, error) {
	switch {
	case cfg.URL != "":
		store, err := postgres.Open(ctx, cfg.URL, cfg.MaxConns, cfg.MinConns)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		slog.Info("using PostgreSQL header store")
		return store, nil
	case cfg.Path != "":
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("init sqlite store: %w", err)
		}
		slog.Info("using SQLite header store", "path", cfg.Path)
		return store, nil
	default:
		slog.Info("using in-memory header store")
		return memory.NewStore(), nil
	}
}

// Start launches the health server and the periodic sync loop. It blocks
// until ctx is cancelled; the first cycle runs immediately.
func (s *Service) Start(ctx context.Context) error {
	go func() {
		if err := s.healthServer.Start(); err != nil {
			s.log.Error("health server failed", "error", err)
		}
	}()
	go s.pruner.Start(ctx)

	s.runCycle(ctx)

	ticker := time.NewTicker(s.cfg.Sync.Interval.Std())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// RunOnce performs a single sync cycle and returns its report.
func (s *Service) RunOnce(ctx context.Context) (*syncing.CycleReport, error) {
	report, err := s.runner.RunCycle(ctx)
	s.healthMon.Record(report, err)
	return report, err
}

func (s *Service) runCycle(ctx context.Context) {
	report, err := s.runner.RunCycle(ctx)
	s.healthMon.Record(report, err)
	if err != nil && ctx.Err() == nil {
		s.log.Error("sync cycle failed", "error", err)
	}
}

// Stop shuts the service down.
func (s *Service) Stop(ctx context.Context) error {
	s.log.Info("stopping sync service")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.log.Warn("failed to close redis", "error", err)
		}
	}
	if err := s.store.Close(); err != nil {
		s.log.Warn("failed to close header store", "error", err)
	}
	return s.healthServer.Stop(ctx)
}
