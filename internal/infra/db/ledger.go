// Package db opens the two SQL stores the API reads: the local ledger (GORM)
// and the clinical system feed (database/sql).
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clinic-finance/backend/config"
)

const pingTimeout = 5 * time.Second

// Ledger owns the GORM connection to the local ledger database.
type Ledger struct {
	db *gorm.DB
}

// OpenLedger connects to the local ledger. Unlike the feed, an unreachable
// ledger is fatal: writes have nowhere else to go.
func OpenLedger(cfg *config.DatabaseConfig) (*Ledger, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local ledger: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)

	if err := ping(sqlDB); err != nil {
		return nil, fmt.Errorf("failed to ping local ledger: %w", err)
	}

	slog.Info("Local ledger connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)
	return &Ledger{db: gormDB}, nil
}

func (l *Ledger) DB() *gorm.DB {
	return l.db
}

// Migrate creates or updates the ledger tables for models.
func (l *Ledger) Migrate(models ...any) error {
	if err := l.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate local ledger: %w", err)
	}
	return nil
}

func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close local ledger: %w", err)
	}
	slog.Info("Local ledger connection closed")
	return nil
}

func configurePool(sqlDB *sql.DB, maxOpen, maxIdle int, lifetime time.Duration) {
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)
}

func ping(sqlDB *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
