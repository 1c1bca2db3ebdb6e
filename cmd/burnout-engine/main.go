package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teamsignal/burnout-engine/internal/api"
	"github.com/teamsignal/burnout-engine/internal/cache"
	"github.com/teamsignal/burnout-engine/internal/config"
	"github.com/teamsignal/burnout-engine/internal/datagen"
	"github.com/teamsignal/burnout-engine/internal/engine"
	"github.com/teamsignal/burnout-engine/internal/observability"
	"github.com/teamsignal/burnout-engine/internal/refresher"
	"github.com/teamsignal/burnout-engine/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting burnout-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"employees", cfg.Generator.Employees,
		"days", cfg.Generator.Days,
	)

	// Create context for initialization, wide enough for the first
	// generate-and-train cycle
	initCtx, initCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer initCancel()

	// Load generation profile
	profile := datagen.DefaultProfile()
	if cfg.Generator.Profile != "" {
		profile, err = datagen.LoadProfile(cfg.Generator.Profile)
		if err != nil {
			slog.Error("failed to load generation profile", "path", cfg.Generator.Profile, "error", err)
			os.Exit(1)
		}
	}

	// Initialize model store
	var store storage.ModelStore
	switch cfg.Storage.Backend {
	case config.StorePostgres:
		store, err = storage.NewPostgresStore(initCtx, storage.PostgresConfig{
			DSN:          cfg.Storage.DSN,
			MaxOpenConns: int32(cfg.Storage.MaxOpenConns),
			MaxIdleConns: int32(cfg.Storage.MaxIdleConns),
		})
	default:
		store, err = storage.NewFileStore(cfg.Storage.Dir)
	}
	if err != nil {
		slog.Error("failed to initialize model store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	slog.Info("model store ready", "backend", cfg.Storage.Backend)

	// Prometheus metrics
	metrics := observability.NewMetrics()

	// Optional Redis snapshot cache
	var snapCache *cache.SnapshotCache
	if cfg.Redis.Address != "" {
		snapCache, err = cache.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL, metrics)
		if err != nil {
			slog.Error("failed to create snapshot cache", "error", err)
			os.Exit(1)
		}
		slog.Info("snapshot cache connected", "address", cfg.Redis.Address)
	}

	// Initialize dataset engine
	eng := engine.NewDatasetEngine(engine.Config{
		Employees: cfg.Generator.Employees,
		Days:      cfg.Generator.Days,
		Seed:      cfg.Generator.Seed,
	}, profile, store, metrics)

	// Restore the last trained model, then generate the first snapshot.
	// The restore is best effort: the refresh below trains a fresh model
	// either way.
	if _, err := eng.RestoreModel(initCtx); err != nil {
		if errors.Is(err, storage.ErrNoModel) {
			slog.Info("no stored model to restore")
		} else {
			slog.Warn("failed to restore stored model", "error", err)
		}
	}

	if _, err := eng.Refresh(initCtx); err != nil {
		slog.Error("failed to generate initial dataset", "error", err)
		os.Exit(1)
	}

	// Start background refresh worker
	worker := refresher.NewRefresher(eng, cfg.Refresh.Interval)
	worker.Start()

	// Setup HTTP server
	server := api.NewServer(cfg.Server, eng, snapCache, metrics)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Stop the background refresh worker
	worker.Stop()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Release cache and store connections
	if err := snapCache.Close(); err != nil {
		slog.Error("cache close error", "error", err)
	}
	if err := eng.Close(); err != nil {
		slog.Error("engine close error", "error", err)
	}

	slog.Info("burnout-engine stopped")
}
