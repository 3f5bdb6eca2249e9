package dashboard

import (
	"context"
	"fmt"

	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// MaxTrendBuckets bounds the buckets query parameter.
const MaxTrendBuckets = 366

// GetDailyTrendInput represents the input for the trend chart.
type GetDailyTrendInput struct {
	Buckets int // 0 means DefaultTrendBuckets
}

// GetDailyTrendOutput represents the output for the trend chart.
type GetDailyTrendOutput struct {
	Points []entity.DailyPoint
}

// GetDailyTrendUseCase builds the per-date income and expense series.
type GetDailyTrendUseCase struct {
	loader LedgerLoader
}

// NewGetDailyTrendUseCase creates a new GetDailyTrendUseCase instance.
func NewGetDailyTrendUseCase(loader LedgerLoader) *GetDailyTrendUseCase {
	return &GetDailyTrendUseCase{loader: loader}
}

// Execute returns the most recent dates in ascending order.
func (uc *GetDailyTrendUseCase) Execute(ctx context.Context, input GetDailyTrendInput) (*GetDailyTrendOutput, error) {
	buckets := input.Buckets
	if buckets == 0 {
		buckets = DefaultTrendBuckets
	}
	if buckets < 0 || buckets > MaxTrendBuckets {
		return nil, domainerror.NewDashboardError(
			domainerror.ErrCodeInvalidBucketCount,
			fmt.Sprintf("buckets must be between 1 and %d", MaxTrendBuckets),
			domainerror.ErrInvalidBucketCount,
		)
	}

	result, err := uc.loader.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &GetDailyTrendOutput{
		Points: DailySeries(result.Transactions, buckets),
	}, nil
}
