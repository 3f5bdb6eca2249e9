// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// TransactionSource identifies the store a transaction was read from.
type TransactionSource string

const (
	// SourceLocal is the clinic-owned, write-capable ledger.
	SourceLocal TransactionSource = "local"
	// SourceExternal is the read-only clinical system feed.
	SourceExternal TransactionSource = "external"
)

// ExternalIDPrefix namespaces external feed ids so they never collide with local integer ids.
const ExternalIDPrefix = "ext-"

// DefaultDisplayTime is used when the time of day of a transaction is unknown.
const DefaultDisplayTime = "00:00"

// DateLayout is the calendar date format used for grouping and window membership.
const DateLayout = "2006-01-02"

// Transaction is the canonical transaction every dashboard component operates on.
// It is materialized per request from raw source rows and never persisted as-is.
type Transaction struct {
	ID              string
	RawID           string
	Source          TransactionSource
	Type            TransactionType
	Amount          float64
	Balance         float64
	Date            time.Time
	DisplayDate     string
	DisplayTime     string
	Concept         string
	Category        string
	PatientName     string
	DoctorName      string
	TreatmentName   string
	PaymentCode     string
	Method          string
	Status          string
	IssuerRUC       string
	Chair           string
	DurationMinutes int
	DaysCounter     int // derived at merge time, relative to "now"
}

// Key returns the composite source identity of the transaction.
func (t *Transaction) Key() string {
	return string(t.Source) + ":" + t.RawID
}

// IsIncome reports whether the transaction is income-typed.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense reports whether the transaction is expense-typed.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsValidTransactionType reports whether the type is one of the canonical values.
func IsValidTransactionType(transactionType TransactionType) bool {
	return transactionType == TransactionTypeExpense || transactionType == TransactionTypeIncome
}

// TransactionTotals represents aggregated totals for a list of transactions.
type TransactionTotals struct {
	IncomeTotal  float64
	ExpenseTotal float64
	NetTotal     float64
}
