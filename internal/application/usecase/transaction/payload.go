package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/domain/valueobject"
)

// TransactionPayload carries a subset of canonical fields for a write.
// Nil fields are not written. An empty Category clears the category.
type TransactionPayload struct {
	Type          *entity.TransactionType
	Amount        *float64
	Balance       *float64
	Date          *string // YYYY-MM-DD
	Time          *string // HH:MM
	Description   *string
	TreatmentName *string
	PatientName   *string
	DoctorName    *string
	PaymentCode   *string
	Method        *string
	Status        *string
	IssuerRUC     *string
	Category      *string
}

// IsEmpty reports whether no field is set.
func (p *TransactionPayload) IsEmpty() bool {
	return p.Type == nil && p.Amount == nil && p.Balance == nil && p.Date == nil &&
		p.Time == nil && p.Description == nil && p.TreatmentName == nil &&
		p.PatientName == nil && p.DoctorName == nil && p.PaymentCode == nil &&
		p.Method == nil && p.Status == nil && p.IssuerRUC == nil && p.Category == nil
}

// ParseLocalID resolves a merged-stream id to a local ledger id.
// External ids are rejected since the clinical feed is not owned by this service.
func ParseLocalID(id string) (uint, error) {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, entity.ExternalIDPrefix) {
		return 0, domainerror.NewTransactionError(
			domainerror.ErrCodeExternalReadOnly,
			"transactions from the clinical system cannot be modified",
			domainerror.ErrExternalTransactionReadOnly,
		)
	}

	parsed, err := strconv.ParseUint(id, 10, 64)
	if err != nil || parsed == 0 {
		return 0, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionID,
			"transaction id must be a positive integer",
			domainerror.ErrInvalidTransactionID,
		)
	}
	return uint(parsed), nil
}

// payloadMapper maps a payload 1:1 onto local ledger columns.
type payloadMapper struct {
	categoryRepo adapter.CategoryRepository
	location     *time.Location
}

func (m *payloadMapper) toWrite(ctx context.Context, payload *TransactionPayload) (adapter.LedgerWrite, error) {
	var write adapter.LedgerWrite

	if payload.Type != nil {
		if !entity.IsValidTransactionType(*payload.Type) {
			return write, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionType,
				"transaction type must be 'expense' or 'income'",
				domainerror.ErrInvalidTransactionType,
			)
		}
		t := string(*payload.Type)
		write.Type = &t
	}

	for _, v := range []*float64{payload.Amount, payload.Balance} {
		if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return write, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionAmount,
				"amount and balance must be non-negative numbers",
				domainerror.ErrInvalidTransactionAmount,
			)
		}
	}
	write.Amount = payload.Amount
	write.Balance = payload.Balance

	if payload.Date != nil {
		date, err := time.ParseInLocation(entity.DateLayout, strings.TrimSpace(*payload.Date), m.location)
		if err != nil {
			return write, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionDate,
				"date must use the YYYY-MM-DD format",
				domainerror.ErrInvalidTransactionDate,
			)
		}
		write.Date = &date
	}

	if payload.Time != nil {
		clock, ok := valueobject.NormalizeClock(*payload.Time)
		if !ok {
			return write, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionDate,
				"time must use the HH:MM format",
				domainerror.ErrInvalidTransactionDate,
			)
		}
		write.Time = &clock
	}

	write.Description = payload.Description
	write.TreatmentName = payload.TreatmentName
	write.PatientName = payload.PatientName
	write.DoctorName = payload.DoctorName
	write.PaymentCode = payload.PaymentCode
	write.Method = payload.Method
	write.Status = payload.Status
	write.IssuerRUC = payload.IssuerRUC

	if payload.Category != nil {
		categoryID, err := m.resolveCategory(ctx, *payload.Category)
		if err != nil {
			return write, err
		}
		write.CategoryID = categoryID
		write.ClearCategory = categoryID == nil
	}

	return write, nil
}

// resolveCategory returns the id of the named category, or nil when the name
// is blank or unknown.
func (m *payloadMapper) resolveCategory(ctx context.Context, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	category, err := m.categoryRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			slog.Info("Unknown category name, writing without category", "category", name)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}
	return &category.ID, nil
}

func ledgerWriteFailed(op string, err error) error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeLedgerWriteFailed,
		fmt.Sprintf("failed to %s transaction", op),
		fmt.Errorf("%w: %w", domainerror.ErrLedgerWriteFailed, err),
	)
}
