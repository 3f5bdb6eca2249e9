package dashboard

import (
	"context"
	"fmt"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

// GetDoctorBreakdownOutput represents the output for the income-by-doctor chart.
type GetDoctorBreakdownOutput struct {
	Doctors     []entity.LabelTotal
	TotalIncome float64
}

// GetDoctorBreakdownUseCase groups income by doctor.
type GetDoctorBreakdownUseCase struct {
	loader LedgerLoader
}

// NewGetDoctorBreakdownUseCase creates a new GetDoctorBreakdownUseCase instance.
func NewGetDoctorBreakdownUseCase(loader LedgerLoader) *GetDoctorBreakdownUseCase {
	return &GetDoctorBreakdownUseCase{loader: loader}
}

// Execute returns every doctor with income, ordered by amount.
func (uc *GetDoctorBreakdownUseCase) Execute(ctx context.Context) (*GetDoctorBreakdownOutput, error) {
	result, err := uc.loader.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	groups := IncomeByDoctor(result.Transactions)
	var total float64
	for _, g := range groups {
		total += g.Total
	}

	return &GetDoctorBreakdownOutput{
		Doctors:     groups,
		TotalIncome: total,
	}, nil
}
