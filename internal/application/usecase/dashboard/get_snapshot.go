package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/clinic-finance/backend/internal/application/usecase/ledger"
	"github.com/clinic-finance/backend/internal/domain/entity"
)

// LedgerLoader provides the merged transaction stream.
type LedgerLoader interface {
	Execute(ctx context.Context) (*ledger.LoadLedgerOutput, error)
}

// GetSnapshotOutput represents the output for the dashboard metrics.
type GetSnapshotOutput struct {
	Snapshot          entity.MetricsSnapshot
	GeneratedAt       time.Time
	LocalAvailable    bool
	ExternalAvailable bool
}

// GetSnapshotUseCase handles the windowed dashboard metrics.
type GetSnapshotUseCase struct {
	loader LedgerLoader
}

// NewGetSnapshotUseCase creates a new GetSnapshotUseCase instance.
func NewGetSnapshotUseCase(loader LedgerLoader) *GetSnapshotUseCase {
	return &GetSnapshotUseCase{loader: loader}
}

// Execute loads the merged stream and reduces it to today, month and total windows.
func (uc *GetSnapshotUseCase) Execute(ctx context.Context) (*GetSnapshotOutput, error) {
	result, err := uc.loader.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &GetSnapshotOutput{
		Snapshot:          BuildSnapshot(result.Transactions, result.Now),
		GeneratedAt:       result.Now,
		LocalAvailable:    result.LocalAvailable,
		ExternalAvailable: result.ExternalAvailable,
	}, nil
}
