// Package main is the entry point for the Clinic Finance API server.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/clinic-finance/backend/config"
	"github.com/clinic-finance/backend/internal/infra/cache"
	"github.com/clinic-finance/backend/internal/infra/db"
	"github.com/clinic-finance/backend/internal/infra/dependency"
	"github.com/clinic-finance/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("Starting Clinic Finance API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"timezone", cfg.Clinic.Timezone,
	)

	// Initialize local ledger connection
	ledger, err := db.OpenLedger(&cfg.Database)
	if err != nil {
		slog.Error("Local ledger connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			slog.Error("Failed to close local ledger", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := ledger.Migrate(
			&model.CategoryModel{},
			&model.TransactionModel{},
		); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")
	}

	// Initialize the clinical system feed (optional)
	var feedDB *sql.DB
	if cfg.ExternalFeed.URL != "" {
		feedDB, err = db.NewExternalFeedConnection(&cfg.ExternalFeed)
		if err != nil {
			slog.Warn("External feed connection failed, running without it", "error", err)
		} else {
			defer feedDB.Close()
		}
	}

	// Initialize Redis (optional)
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewRedisConnection(&cfg.Redis)
		if err != nil {
			slog.Warn("Redis connection failed, using in-memory rate limits and locks", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	injector, err := dependency.NewInjector(cfg, dependency.Resources{
		DB:     ledger.DB(),
		FeedDB: feedDB,
		Redis:  redisClient,
	})
	if err != nil {
		slog.Error("Failed to wire dependencies", "error", err)
		os.Exit(1)
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if injector.ReportWorker != nil {
		go injector.ReportWorker.Start(workerCtx)
	}

	engine := injector.Router.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
