// Package main runs the Solo Life service: a tiered key-value store behind a
// REST API, with the progression engine and scheduled backups.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solo-life/service_layer/internal/api"
	"github.com/solo-life/service_layer/internal/auth"
	"github.com/solo-life/service_layer/internal/backup"
	"github.com/solo-life/service_layer/internal/config"
	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/metrics"
	"github.com/solo-life/service_layer/internal/repo"
	"github.com/solo-life/service_layer/internal/store"
	"github.com/solo-life/service_layer/internal/tracker"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	flag.Parse()

	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.LoadOrDefault(*configPath)
	logger := logging.New("solo-life", cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Auth.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backends, cleanup, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("failed to build store backends")
		os.Exit(1)
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	kv := store.NewTiered(ctx, store.Config{Namespace: "solo-life"}, logger, m, backends...)
	repos := repo.New(kv)
	authSvc := auth.New(repos.Users, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL.Std(), logger)
	trackerSvc := tracker.New(repos, logger)

	server := api.NewServer(api.Options{
		Config:   cfg,
		Logger:   logger,
		Auth:     authSvc,
		Repo:     repos,
		Tracker:  trackerSvc,
		Metrics:  m,
		Registry: registry,
	})

	var scheduler *backup.Scheduler
	if cfg.Backup.Enabled {
		scheduler = backup.New(kv, logger, cfg.Backup.Schedule, cfg.Backup.Keep)
		if err := scheduler.Start(); err != nil {
			logger.WithError(err).Error("invalid backup schedule")
			os.Exit(1)
		}
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infof("listening on :%d", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.WithError(err).Error("server error")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("forced shutdown")
	}
}

// buildBackends assembles the tier chain in fallback order: redis, postgres,
// local files. Tiers that fail to construct are skipped with a warning; the
// adapter degrades rather than the process refusing to start.
func buildBackends(ctx context.Context, cfg *config.Config, logger *logging.Logger) ([]store.Backend, func(), error) {
	var backends []store.Backend
	var closers []func()

	if cfg.Redis.Enabled {
		backends = append(backends, store.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	}

	if cfg.Postgres.Enabled {
		pg, err := store.NewPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.WithError(err).Warn("postgres tier unavailable, skipping")
		} else {
			backends = append(backends, pg)
			closers = append(closers, func() { _ = pg.Close() })
		}
	}

	if cfg.Local.Enabled {
		available := true
		if err := os.MkdirAll(cfg.Local.Dir, 0o755); err != nil {
			logger.WithError(err).Warn("local data dir not writable")
			available = false
		}
		backends = append(backends, store.NewLocal(cfg.Local.Dir, available))
	}

	if len(backends) == 0 {
		return nil, nil, fmt.Errorf("no store tier configured")
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return backends, cleanup, nil
}
