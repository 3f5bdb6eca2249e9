// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/clinic-finance/backend/internal/application/usecase/transaction"
	"github.com/clinic-finance/backend/internal/domain/entity"
)

// TransactionRequest represents the request body for transaction create and update.
// Create requires type and amount; update accepts any non-empty subset.
type TransactionRequest struct {
	Type          *string  `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	Amount        *float64 `json:"amount,omitempty"`
	Balance       *float64 `json:"balance,omitempty"`
	Date          *string  `json:"date,omitempty"`
	Time          *string  `json:"time,omitempty"`
	Description   *string  `json:"description,omitempty" binding:"omitempty,max=1000"`
	TreatmentName *string  `json:"treatment_name,omitempty" binding:"omitempty,max=255"`
	PatientName   *string  `json:"patient_name,omitempty" binding:"omitempty,max=255"`
	DoctorName    *string  `json:"doctor_name,omitempty" binding:"omitempty,max=255"`
	PaymentCode   *string  `json:"payment_code,omitempty" binding:"omitempty,max=100"`
	Method        *string  `json:"method,omitempty" binding:"omitempty,max=50"`
	Status        *string  `json:"status,omitempty" binding:"omitempty,max=50"`
	IssuerRUC     *string  `json:"issuer_ruc,omitempty" binding:"omitempty,max=20"`
	Category      *string  `json:"category,omitempty" binding:"omitempty,max=100"`
}

// ToPayload converts the request to a use case payload.
func (r *TransactionRequest) ToPayload() transaction.TransactionPayload {
	payload := transaction.TransactionPayload{
		Amount:        r.Amount,
		Balance:       r.Balance,
		Date:          r.Date,
		Time:          r.Time,
		Description:   r.Description,
		TreatmentName: r.TreatmentName,
		PatientName:   r.PatientName,
		DoctorName:    r.DoctorName,
		PaymentCode:   r.PaymentCode,
		Method:        r.Method,
		Status:        r.Status,
		IssuerRUC:     r.IssuerRUC,
		Category:      r.Category,
	}
	if r.Type != nil {
		t := entity.TransactionType(*r.Type)
		payload.Type = &t
	}
	return payload
}

// TransactionResponse represents a single canonical transaction in API responses.
type TransactionResponse struct {
	ID              string `json:"id"`
	Source          string `json:"source"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	Balance         string `json:"balance"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Concept         string `json:"concept"`
	Category        string `json:"category"`
	PatientName     string `json:"patient_name"`
	DoctorName      string `json:"doctor_name"`
	TreatmentName   string `json:"treatment_name"`
	PaymentCode     string `json:"payment_code"`
	Method          string `json:"method"`
	Status          string `json:"status"`
	IssuerRUC       string `json:"issuer_ruc"`
	Chair           string `json:"chair"`
	DurationMinutes int    `json:"duration_minutes"`
	DaysCounter     int    `json:"days_counter"`
	ReadOnly        bool   `json:"read_only"`
}

// PaginationResponse represents pagination information in API responses.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TotalsResponse represents aggregated totals in API responses.
type TotalsResponse struct {
	IncomeTotal  string `json:"income_total"`
	ExpenseTotal string `json:"expense_total"`
	NetTotal     string `json:"net_total"`
}

// SourcesResponse reports which sources contributed to a response.
type SourcesResponse struct {
	Local    bool `json:"local"`
	External bool `json:"external"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationResponse    `json:"pagination"`
	Totals       TotalsResponse        `json:"totals"`
	Sources      SourcesResponse       `json:"sources"`
}

// TransactionIDResponse represents the response of a create or update.
type TransactionIDResponse struct {
	ID string `json:"id"`
}

// ToTransactionResponse converts a canonical transaction to its response DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		Source:          string(tx.Source),
		Type:            string(tx.Type),
		Amount:          MoneyString(tx.Amount),
		Balance:         MoneyString(tx.Balance),
		Date:            tx.DisplayDate,
		Time:            tx.DisplayTime,
		Concept:         tx.Concept,
		Category:        tx.Category,
		PatientName:     tx.PatientName,
		DoctorName:      tx.DoctorName,
		TreatmentName:   tx.TreatmentName,
		PaymentCode:     tx.PaymentCode,
		Method:          tx.Method,
		Status:          tx.Status,
		IssuerRUC:       tx.IssuerRUC,
		Chair:           tx.Chair,
		DurationMinutes: tx.DurationMinutes,
		DaysCounter:     tx.DaysCounter,
		ReadOnly:        tx.Source == entity.SourceExternal,
	}
}

// ToTransactionListResponse converts the list output to its response DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, len(output.Transactions))
	for i := range output.Transactions {
		transactions[i] = ToTransactionResponse(&output.Transactions[i])
	}

	return TransactionListResponse{
		Transactions: transactions,
		Pagination: PaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
		Totals: TotalsResponse{
			IncomeTotal:  MoneyString(output.Totals.IncomeTotal),
			ExpenseTotal: MoneyString(output.Totals.ExpenseTotal),
			NetTotal:     MoneyString(output.Totals.NetTotal),
		},
		Sources: SourcesResponse{
			Local:    output.LocalAvailable,
			External: output.ExternalAvailable,
		},
	}
}
