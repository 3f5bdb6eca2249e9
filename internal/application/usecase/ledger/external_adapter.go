// Package ledger builds the merged, canonical transaction stream from the local
// ledger and the external clinical feed.
package ledger

import (
	"strconv"
	"time"

	"github.com/clinic-finance/backend/internal/domain/entity"
	"github.com/clinic-finance/backend/internal/domain/valueobject"
)

// External feed defaults.
const (
	ExternalDefaultPatient         = "Paciente General"
	ExternalDefaultDoctor          = "Dr. General"
	ExternalDefaultTreatment       = "Consulta General"
	ExternalDefaultChair           = "Sillón 1"
	ExternalDefaultDuration        = 30
	ExternalDefaultMethod          = "Efectivo"
	ExternalDefaultStatus          = "PAGADO"
	ExternalDefaultPaymentCode     = "S/N"
	ExternalDefaultIssuerRUC       = "-"
	ExternalTreatmentCategory      = "Tratamientos"
	ExternalClinicalIncomeCategory = "Ingresos Clínicos"
)

// Candidate column names per canonical field, tried left to right.
var (
	externalID          = valueobject.FieldChain{"id", "uuid", "codigo"}
	externalAmount      = valueobject.FieldChain{"amount", "total", "precio", "monto"}
	externalBalance     = valueobject.FieldChain{"balance", "saldo", "pending_amount"}
	externalDate        = valueobject.FieldChain{"date", "created_at"}
	externalTime        = valueobject.FieldChain{"time", "hora"}
	externalTreatment   = valueobject.FieldChain{"treatment_name", "tratamiento", "treatment"}
	externalConcept     = valueobject.FieldChain{"concept", "description", "descripcion"}
	externalCategory    = valueobject.FieldChain{"category", "categoria", "category_name"}
	externalDuration    = valueobject.FieldChain{"duration", "duracion", "duration_minutes"}
	externalTextColumns = []struct {
		chain    valueobject.FieldChain
		fallback string
		assign   func(*entity.Transaction, string)
	}{
		{valueobject.FieldChain{"patient_name", "paciente", "patient"}, ExternalDefaultPatient,
			func(t *entity.Transaction, v string) { t.PatientName = v }},
		{valueobject.FieldChain{"doctor_name", "doctor", "medico"}, ExternalDefaultDoctor,
			func(t *entity.Transaction, v string) { t.DoctorName = v }},
		{valueobject.FieldChain{"payment_code", "codigo_pago", "receipt_number", "comprobante"}, ExternalDefaultPaymentCode,
			func(t *entity.Transaction, v string) { t.PaymentCode = v }},
		{valueobject.FieldChain{"method", "payment_method", "metodo_pago"}, ExternalDefaultMethod,
			func(t *entity.Transaction, v string) { t.Method = v }},
		{valueobject.FieldChain{"status", "estado"}, ExternalDefaultStatus,
			func(t *entity.Transaction, v string) { t.Status = v }},
		{valueobject.FieldChain{"issuer_ruc", "ruc"}, ExternalDefaultIssuerRUC,
			func(t *entity.Transaction, v string) { t.IssuerRUC = v }},
		{valueobject.FieldChain{"chair", "sillon"}, ExternalDefaultChair,
			func(t *entity.Transaction, v string) { t.Chair = v }},
	}
)

// AdaptExternal turns a raw clinical feed row into a canonical transaction.
// Every external row is income. index is the row position in the fetched batch and
// only names rows that carry no id at all.
func AdaptExternal(record valueobject.RawRecord, index int, loc *time.Location, now time.Time) entity.Transaction {
	rawID := externalID.String(record, "row-"+strconv.Itoa(index))

	tx := entity.Transaction{
		ID:              entity.ExternalIDPrefix + rawID,
		RawID:           rawID,
		Source:          entity.SourceExternal,
		Type:            entity.TransactionTypeIncome,
		Amount:          externalAmount.Float(record),
		Balance:         externalBalance.Float(record),
		DurationMinutes: externalDuration.Int(record, ExternalDefaultDuration),
	}

	instant := valueobject.ParsedInstant{Time: now.In(loc), HasClock: true}
	for _, key := range externalDate {
		raw, ok := record.Lookup(key)
		if !ok {
			continue
		}
		if parsed, ok := valueobject.ParseInstant(raw, loc); ok {
			instant = parsed
			break
		}
	}
	tx.Date = valueobject.CalendarDate(instant.Time, loc)
	tx.DisplayDate = tx.Date.Format(entity.DateLayout)

	tx.DisplayTime = entity.DefaultDisplayTime
	if clock, ok := valueobject.NormalizeClock(externalTime.String(record, "")); ok {
		tx.DisplayTime = clock
	} else if instant.HasClock {
		tx.DisplayTime = valueobject.ClockOf(instant.Time)
	}

	treatment, hasTreatment := externalTreatment.Resolve(record)
	tx.TreatmentName = ExternalDefaultTreatment
	if hasTreatment {
		tx.TreatmentName = firstNonBlank(valueobject.ToString(treatment), ExternalDefaultTreatment)
	}
	tx.Concept = externalConcept.String(record, tx.TreatmentName)

	categoryFallback := ExternalClinicalIncomeCategory
	if hasTreatment {
		categoryFallback = ExternalTreatmentCategory
	}
	tx.Category = externalCategory.String(record, categoryFallback)

	for _, column := range externalTextColumns {
		column.assign(&tx, column.chain.String(record, column.fallback))
	}

	return tx
}
