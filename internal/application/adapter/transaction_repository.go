// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/clinic-finance/backend/internal/domain/valueobject"
)

// LocalTransactionRow is a local ledger row joined with its category name.
// Nullable columns are pointers; the ledger adapter applies the defaults.
type LocalTransactionRow struct {
	ID            uint
	Type          string
	Amount        float64
	Balance       float64
	Date          *time.Time
	Time          *string
	Description   *string
	TreatmentName *string
	PatientName   *string
	DoctorName    *string
	PaymentCode   *string
	Method        *string
	Status        *string
	IssuerRUC     *string
	CategoryName  *string
}

// LedgerWrite carries the columns of a local ledger create or update.
// Nil fields are left untouched.
type LedgerWrite struct {
	Type          *string
	Amount        *float64
	Balance       *float64
	Date          *time.Time
	Time          *string
	Description   *string
	TreatmentName *string
	PatientName   *string
	DoctorName    *string
	PaymentCode   *string
	Method        *string
	Status        *string
	IssuerRUC     *string
	CategoryID    *uint
	ClearCategory bool
}

// Columns returns the set fields keyed by their local store column name.
func (w LedgerWrite) Columns() map[string]any {
	columns := make(map[string]any)
	setString := func(name string, v *string) {
		if v != nil {
			columns[name] = *v
		}
	}
	setFloat := func(name string, v *float64) {
		if v != nil {
			columns[name] = *v
		}
	}

	setString("type", w.Type)
	setFloat("amount", w.Amount)
	setFloat("balance", w.Balance)
	if w.Date != nil {
		columns["date"] = *w.Date
	}
	setString("time", w.Time)
	setString("description", w.Description)
	setString("treatment_name", w.TreatmentName)
	setString("patient_name", w.PatientName)
	setString("doctor_name", w.DoctorName)
	setString("payment_code", w.PaymentCode)
	setString("method", w.Method)
	setString("status", w.Status)
	setString("issuer_ruc", w.IssuerRUC)
	if w.ClearCategory {
		columns["category_id"] = nil
	} else if w.CategoryID != nil {
		columns["category_id"] = *w.CategoryID
	}
	return columns
}

// LocalLedgerRepository defines persistence operations on the clinic-owned ledger.
type LocalLedgerRepository interface {
	// FindAll returns the full local history ordered by date descending, category joined.
	FindAll(ctx context.Context) ([]*LocalTransactionRow, error)

	// Create inserts a new row and returns its id.
	Create(ctx context.Context, write LedgerWrite) (uint, error)

	// Update applies the set columns of write to the row with the given id.
	Update(ctx context.Context, id uint, write LedgerWrite) error

	// Delete removes the row with the given id.
	Delete(ctx context.Context, id uint) error
}

// ExternalFeedRepository reads the clinical system's transaction feed.
type ExternalFeedRepository interface {
	// FetchRecent returns at most limit rows, most recently created first.
	FetchRecent(ctx context.Context, limit int) ([]valueobject.RawRecord, error)
}
