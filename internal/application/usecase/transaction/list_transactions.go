// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinic-finance/backend/internal/application/usecase/dashboard"
	"github.com/clinic-finance/backend/internal/application/usecase/ledger"
	"github.com/clinic-finance/backend/internal/domain/entity"
)

const (
	// DefaultPageLimit is the page size used when none is requested.
	DefaultPageLimit = 50
	// MaxPageLimit bounds the requested page size.
	MaxPageLimit = 500
)

// LedgerLoader provides the merged transaction stream.
type LedgerLoader interface {
	Execute(ctx context.Context) (*ledger.LoadLedgerOutput, error)
}

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	Type   *entity.TransactionType
	Source *entity.TransactionSource
	Search string
	Page   int
	Limit  int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions      []entity.Transaction
	Pagination        PaginationOutput
	Totals            entity.TransactionTotals
	LocalAvailable    bool
	ExternalAvailable bool
}

// ListTransactionsUseCase handles listing the merged transaction stream.
type ListTransactionsUseCase struct {
	loader LedgerLoader
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(loader LedgerLoader) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		loader: loader,
	}
}

// Execute loads, filters and paginates the merged stream.
// Totals cover every filtered transaction, not only the returned page.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = DefaultPageLimit
	}
	if input.Limit > MaxPageLimit {
		input.Limit = MaxPageLimit
	}

	result, err := uc.loader.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(input.Search))
	filtered := make([]entity.Transaction, 0, len(result.Transactions))
	for i := range result.Transactions {
		tx := &result.Transactions[i]
		if input.Type != nil && tx.Type != *input.Type {
			continue
		}
		if input.Source != nil && tx.Source != *input.Source {
			continue
		}
		if search != "" && !matchesSearch(tx, search) {
			continue
		}

		filtered = append(filtered, *tx)
	}

	total := len(filtered)
	totalPages := (total + input.Limit - 1) / input.Limit
	start, end := pageBounds(input.Page, input.Limit, total)

	return &ListTransactionsOutput{
		Transactions: filtered[start:end],
		Pagination: PaginationOutput{
			Page:       input.Page,
			Limit:      input.Limit,
			Total:      int64(total),
			TotalPages: totalPages,
		},
		Totals:            dashboard.Totals(filtered),
		LocalAvailable:    result.LocalAvailable,
		ExternalAvailable: result.ExternalAvailable,
	}, nil
}

// pageBounds returns the slice bounds of a 1-based page. Pages past the end
// yield an empty range without computing page*limit, which may overflow.
func pageBounds(page, limit, total int) (start, end int) {
	if page-1 >= (total+limit-1)/limit {
		return total, total
	}
	start = (page - 1) * limit
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}

// matchesSearch reports whether the lower-cased term appears in the concept,
// patient or doctor of the transaction.
func matchesSearch(tx *entity.Transaction, term string) bool {
	for _, field := range []string{tx.Concept, tx.PatientName, tx.DoctorName} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
