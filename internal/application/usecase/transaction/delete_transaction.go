package transaction

import (
	"context"
	"errors"

	"github.com/clinic-finance/backend/internal/application/adapter"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	ID string
}

// DeleteTransactionOutput represents the output of transaction deletion.
type DeleteTransactionOutput struct {
	Success bool
}

// DeleteTransactionUseCase handles transaction deletion logic.
type DeleteTransactionUseCase struct {
	ledgerRepo adapter.LocalLedgerRepository
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(ledgerRepo adapter.LocalLedgerRepository) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// Execute performs the transaction deletion.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	id, err := ParseLocalID(input.ID)
	if err != nil {
		return nil, err
	}

	if err := uc.ledgerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, ledgerWriteFailed("delete", err)
	}

	return &DeleteTransactionOutput{
		Success: true,
	}, nil
}
