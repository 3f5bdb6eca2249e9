package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/clinic-finance/backend/internal/application/adapter"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// UpdateTransactionInput represents the input for a partial transaction update.
type UpdateTransactionInput struct {
	ID      string
	Payload TransactionPayload
}

// UpdateTransactionOutput represents the output of a transaction update.
type UpdateTransactionOutput struct {
	ID string
}

// UpdateTransactionUseCase applies a partial update to a local ledger row.
type UpdateTransactionUseCase struct {
	ledgerRepo adapter.LocalLedgerRepository
	mapper     payloadMapper
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	ledgerRepo adapter.LocalLedgerRepository,
	categoryRepo adapter.CategoryRepository,
	location *time.Location,
) *UpdateTransactionUseCase {
	if location == nil {
		location = time.UTC
	}
	return &UpdateTransactionUseCase{
		ledgerRepo: ledgerRepo,
		mapper:     payloadMapper{categoryRepo: categoryRepo, location: location},
	}
}

// Execute performs the transaction update.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	id, err := ParseLocalID(input.ID)
	if err != nil {
		return nil, err
	}

	if input.Payload.IsEmpty() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyUpdate,
			"at least one field must be provided",
			domainerror.ErrEmptyUpdate,
		)
	}

	write, err := uc.mapper.toWrite(ctx, &input.Payload)
	if err != nil {
		return nil, err
	}

	if err := uc.ledgerRepo.Update(ctx, id, write); err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, ledgerWriteFailed("update", err)
	}

	return &UpdateTransactionOutput{ID: input.ID}, nil
}
