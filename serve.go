package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/healthplans-api/config"
	"github.com/giygas/healthplans-api/data"
	"github.com/giygas/healthplans-api/favorites"
	"github.com/giygas/healthplans-api/handlers"
	"github.com/giygas/healthplans-api/health"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/scheduler"
	"github.com/giygas/healthplans-api/seed"
	"github.com/giygas/healthplans-api/server"
	"github.com/giygas/healthplans-api/session"
	"github.com/spf13/cobra"
)

const favoritesTTL = 30 * 24 * time.Hour

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Load the catalog, start the background jobs and serve the HTTP API until SIGINT or SIGTERM.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.InitLoggerWithLevel(cfg.LogDir, cfg.LogLevel, cfg.LogRetentionWeeks)
	defer logging.DefaultLoggingService.Close()

	logging.Info("Starting health plans API", "env", cfg.Env, "log_level", cfg.LogLevel)

	container := data.NewCatalogContainer()
	container.SetServerStartTime(time.Now())

	store, closeStore, err := openFavoritesStore(cmd.Context(), cfg.RedisURL)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := session.NewManager(container, store)
	portal := session.NewPortal(container, nil)

	sched := scheduler.NewScheduler(container, seed.NewLoader(cfg.SeedFile), sessions, scheduler.Options{
		AuditInterval: cfg.AuditInterval,
		SessionIdle:   cfg.SessionIdle,
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	handler := handlers.NewHTTPHandler(container, sessions, portal, health.NewHealthChecker(container))
	srv := server.NewServer(cfg, handler)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logging.Error("Server failed", "error", err)
		return err
	case sig := <-quit:
		logging.Info("Received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// openFavoritesStore returns the Redis store when redisURL is set, the
// in-memory store otherwise
func openFavoritesStore(ctx context.Context, redisURL string) (favorites.Store, func(), error) {
	if redisURL == "" {
		logging.Info("Favorites kept in memory")
		return favorites.NewMemoryStore(), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := favorites.NewRedisStoreFromURL(pingCtx, redisURL, favoritesTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect favorites store: %w", err)
	}
	logging.Info("Favorites persisted to Redis")
	return store, func() {
		if err := store.Close(); err != nil {
			logging.Warn("Failed to close favorites store", "error", err)
		}
	}, nil
}
