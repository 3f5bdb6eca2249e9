package dashboard

import (
	"context"
	"fmt"

	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// MaxTopCategories bounds the top query parameter.
const MaxTopCategories = 50

// GetCategoryBreakdownInput represents the input for the expense breakdown.
type GetCategoryBreakdownInput struct {
	Top int // 0 means DefaultTopCategories
}

// GetCategoryBreakdownOutput represents the output for the expense breakdown.
type GetCategoryBreakdownOutput struct {
	Categories   []entity.LabelTotal
	TotalExpense float64
}

// GetCategoryBreakdownUseCase groups expenses by category.
type GetCategoryBreakdownUseCase struct {
	loader LedgerLoader
}

// NewGetCategoryBreakdownUseCase creates a new GetCategoryBreakdownUseCase instance.
func NewGetCategoryBreakdownUseCase(loader LedgerLoader) *GetCategoryBreakdownUseCase {
	return &GetCategoryBreakdownUseCase{loader: loader}
}

// Execute returns the top expense categories ordered by amount.
func (uc *GetCategoryBreakdownUseCase) Execute(ctx context.Context, input GetCategoryBreakdownInput) (*GetCategoryBreakdownOutput, error) {
	top := input.Top
	if top == 0 {
		top = DefaultTopCategories
	}
	if top < 0 || top > MaxTopCategories {
		return nil, domainerror.NewDashboardError(
			domainerror.ErrCodeInvalidTopN,
			fmt.Sprintf("top must be between 1 and %d", MaxTopCategories),
			domainerror.ErrInvalidTopN,
		)
	}

	result, err := uc.loader.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	groups := ExpensesByCategory(result.Transactions)
	var total float64
	for _, g := range groups {
		total += g.Total
	}

	return &GetCategoryBreakdownOutput{
		Categories:   TopN(groups, top),
		TotalExpense: total,
	}, nil
}
