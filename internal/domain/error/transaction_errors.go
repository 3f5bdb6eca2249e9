// Package error defines domain-specific errors for the clinic finance backend.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the local ledger.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionDate is returned when the transaction date is invalid.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrInvalidTransactionID is returned when an id is neither a local nor an external id.
	ErrInvalidTransactionID = errors.New("invalid transaction id")

	// ErrExternalTransactionReadOnly is returned when a write targets the external feed namespace.
	ErrExternalTransactionReadOnly = errors.New("external transactions are read-only")

	// ErrMissingTransactionFields is returned when a create lacks a required field.
	ErrMissingTransactionFields = errors.New("missing required transaction fields")

	// ErrInvalidTransactionAmount is returned when an amount or balance is negative or not finite.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrEmptyUpdate is returned when an update carries no fields.
	ErrEmptyUpdate = errors.New("update payload has no fields")

	// ErrLedgerWriteFailed is returned when the local store rejects a write.
	ErrLedgerWriteFailed = errors.New("local ledger write failed")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionDate   TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidTransactionID     TransactionErrorCode = "TXN-010003"
	ErrCodeTransactionNotFound      TransactionErrorCode = "TXN-010004"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010005"
	ErrCodeExternalReadOnly         TransactionErrorCode = "TXN-010006"
	ErrCodeEmptyUpdate              TransactionErrorCode = "TXN-010007"
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010008"

	// Store errors (02XXXX)
	ErrCodeLedgerWriteFailed TransactionErrorCode = "TXN-020001"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
