// Package ledger builds the merged, canonical transaction stream from the local
// ledger and the external clinical feed.
package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	"github.com/clinic-finance/backend/internal/domain/valueobject"
)

// Local ledger defaults.
const (
	LocalDefaultConcept  = "Movimiento Manual"
	LocalDefaultCategory = "General"
	// LocalDefaultStatus is applied to rows without a status. Kept as the clinic
	// has always seen it; product has not confirmed the intended default.
	LocalDefaultStatus      = "CANCELADO"
	LocalDefaultMethod      = "Efectivo"
	LocalDefaultPlaceholder = "-"
)

// expenseTypes lists every raw local type value that means expense.
var expenseTypes = map[string]struct{}{
	"expense": {},
	"EGRESO":  {},
}

// NormalizeLocalType maps a raw local type to the canonical enum.
func NormalizeLocalType(raw string) entity.TransactionType {
	if _, ok := expenseTypes[raw]; ok {
		return entity.TransactionTypeExpense
	}
	return entity.TransactionTypeIncome
}

// AdaptLocal turns a local ledger row into a canonical transaction.
// Rows without a date are placed on the current day.
func AdaptLocal(row *adapter.LocalTransactionRow, loc *time.Location, now time.Time) entity.Transaction {
	date := valueobject.StartOfDay(now, loc)
	if row.Date != nil && !row.Date.IsZero() {
		date = valueobject.CalendarDate(*row.Date, loc)
	}

	displayTime := entity.DefaultDisplayTime
	if clock, ok := valueobject.NormalizeClock(deref(row.Time)); ok {
		displayTime = clock
	}

	treatment := deref(row.TreatmentName)
	concept := firstNonBlank(treatment, deref(row.Description), LocalDefaultConcept)

	rawID := strconv.FormatUint(uint64(row.ID), 10)

	return entity.Transaction{
		ID:              rawID,
		RawID:           rawID,
		Source:          entity.SourceLocal,
		Type:            NormalizeLocalType(row.Type),
		Amount:          finite(row.Amount),
		Balance:         finite(row.Balance),
		Date:            date,
		DisplayDate:     date.Format(entity.DateLayout),
		DisplayTime:     displayTime,
		Concept:         concept,
		Category:        firstNonBlank(deref(row.CategoryName), LocalDefaultCategory),
		PatientName:     firstNonBlank(deref(row.PatientName), LocalDefaultPlaceholder),
		DoctorName:      firstNonBlank(deref(row.DoctorName), LocalDefaultPlaceholder),
		TreatmentName:   firstNonBlank(treatment, LocalDefaultPlaceholder),
		PaymentCode:     firstNonBlank(deref(row.PaymentCode), LocalDefaultPlaceholder),
		Method:          firstNonBlank(deref(row.Method), LocalDefaultMethod),
		Status:          firstNonBlank(deref(row.Status), LocalDefaultStatus),
		IssuerRUC:       firstNonBlank(deref(row.IssuerRUC), LocalDefaultPlaceholder),
		Chair:           LocalDefaultPlaceholder,
		DurationMinutes: 0,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func finite(f float64) float64 {
	return valueobject.ToFloat(f)
}
