package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // postgres driver for the clinical feed

	"github.com/clinic-finance/backend/config"
)

// NewExternalFeedConnection opens a read connection to the clinical system database.
// A failed ping is logged but not fatal: the feed may come up later and every
// request already degrades to local data while it is down.
func NewExternalFeedConnection(cfg *config.ExternalFeedConfig) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open external feed connection: %w", err)
	}
	configurePool(sqlDB, cfg.MaxOpenConns, cfg.MaxOpenConns, 5*time.Minute)

	if err := ping(sqlDB); err != nil {
		slog.Warn("External feed not reachable at startup", "error", err)
	} else {
		slog.Info("External feed connection established", "table", cfg.Table)
	}

	return sqlDB, nil
}
