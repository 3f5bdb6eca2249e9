package transaction

import (
	"context"
	"strconv"
	"time"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/domain/valueobject"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	Payload TransactionPayload
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	ID string
}

// CreateTransactionUseCase writes a new row into the local ledger.
type CreateTransactionUseCase struct {
	ledgerRepo adapter.LocalLedgerRepository
	mapper     payloadMapper
	now        func() time.Time
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	ledgerRepo adapter.LocalLedgerRepository,
	categoryRepo adapter.CategoryRepository,
	location *time.Location,
) *CreateTransactionUseCase {
	if location == nil {
		location = time.UTC
	}
	return &CreateTransactionUseCase{
		ledgerRepo: ledgerRepo,
		mapper:     payloadMapper{categoryRepo: categoryRepo, location: location},
		now:        time.Now,
	}
}

// WithClock replaces the clock used for the default date.
func (uc *CreateTransactionUseCase) WithClock(now func() time.Time) *CreateTransactionUseCase {
	uc.now = now
	return uc
}

// Execute performs the transaction creation.
// Type and amount are required; the date defaults to today in the clinic timezone.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	if input.Payload.Type == nil || input.Payload.Amount == nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			"type and amount are required",
			domainerror.ErrMissingTransactionFields,
		)
	}

	write, err := uc.mapper.toWrite(ctx, &input.Payload)
	if err != nil {
		return nil, err
	}

	if write.Date == nil {
		today := valueobject.StartOfDay(uc.now(), uc.mapper.location)
		write.Date = &today
	}
	if write.Time == nil {
		clock := entity.DefaultDisplayTime
		write.Time = &clock
	}

	id, err := uc.ledgerRepo.Create(ctx, write)
	if err != nil {
		return nil, ledgerWriteFailed("create", err)
	}

	return &CreateTransactionOutput{
		ID: strconv.FormatUint(uint64(id), 10),
	}, nil
}
