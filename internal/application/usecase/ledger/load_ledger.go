// Package ledger builds the merged, canonical transaction stream from the local
// ledger and the external clinical feed.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// DefaultExternalLimit caps how many external rows are read per request.
const DefaultExternalLimit = 500

// Config holds the settings of the ledger loader.
type Config struct {
	Location      *time.Location
	ExternalLimit int
}

// LoadLedgerOutput is one fully merged read of both sources.
type LoadLedgerOutput struct {
	Transactions      []entity.Transaction
	Now               time.Time
	LocalAvailable    bool
	ExternalAvailable bool
}

// LoadLedgerUseCase fetches both sources, adapts them and merges the result.
// Nothing is cached: every call re-reads and re-merges.
type LoadLedgerUseCase struct {
	localRepo     adapter.LocalLedgerRepository
	externalRepo  adapter.ExternalFeedRepository
	location      *time.Location
	externalLimit int
	now           func() time.Time
}

// NewLoadLedgerUseCase creates a new LoadLedgerUseCase instance.
// externalRepo may be nil when no clinical feed is configured.
func NewLoadLedgerUseCase(
	localRepo adapter.LocalLedgerRepository,
	externalRepo adapter.ExternalFeedRepository,
	cfg Config,
) *LoadLedgerUseCase {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	limit := cfg.ExternalLimit
	if limit <= 0 {
		limit = DefaultExternalLimit
	}
	return &LoadLedgerUseCase{
		localRepo:     localRepo,
		externalRepo:  externalRepo,
		location:      loc,
		externalLimit: limit,
		now:           time.Now,
	}
}

// WithClock replaces the clock used to derive relative fields.
func (uc *LoadLedgerUseCase) WithClock(now func() time.Time) *LoadLedgerUseCase {
	uc.now = now
	return uc
}

// Location returns the clinic timezone used for calendar dates.
func (uc *LoadLedgerUseCase) Location() *time.Location {
	return uc.location
}

// Now returns the current instant in the clinic timezone.
func (uc *LoadLedgerUseCase) Now() time.Time {
	return uc.now().In(uc.location)
}

// Execute reads both sources concurrently and returns the merged stream.
// A failing source is logged and contributes an empty set; only a cancelled
// context is returned as an error.
func (uc *LoadLedgerUseCase) Execute(ctx context.Context) (*LoadLedgerOutput, error) {
	now := uc.Now()

	var (
		wg                  sync.WaitGroup
		local, external     []entity.Transaction
		localOK, externalOK bool
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		local, localOK = uc.fetchLocal(ctx, now)
	}()
	go func() {
		defer wg.Done()
		external, externalOK = uc.fetchExternal(ctx, now)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &LoadLedgerOutput{
		Transactions:      Merge(now, local, external),
		Now:               now,
		LocalAvailable:    localOK,
		ExternalAvailable: externalOK,
	}, nil
}

func (uc *LoadLedgerUseCase) fetchLocal(ctx context.Context, now time.Time) ([]entity.Transaction, bool) {
	rows, err := uc.localRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Local ledger unavailable, continuing without local data",
			"error", err,
			"source", entity.SourceLocal,
		)
		return nil, false
	}

	transactions := make([]entity.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, AdaptLocal(row, uc.location, now))
	}
	return transactions, true
}

func (uc *LoadLedgerUseCase) fetchExternal(ctx context.Context, now time.Time) ([]entity.Transaction, bool) {
	if uc.externalRepo == nil {
		return nil, false
	}

	records, err := uc.externalRepo.FetchRecent(ctx, uc.externalLimit)
	if err != nil {
		reason := "unavailable"
		if errors.Is(err, domainerror.ErrExternalFeedAccessDenied) {
			reason = "access_denied"
		}
		slog.Warn("External feed unavailable, continuing with local data only",
			"error", err,
			"reason", reason,
			"source", entity.SourceExternal,
		)
		return nil, false
	}

	transactions := make([]entity.Transaction, 0, len(records))
	for i, record := range records {
		transactions = append(transactions, AdaptExternal(record, i, uc.location, now))
	}
	return transactions, true
}
