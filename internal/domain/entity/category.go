// Package entity defines the core business entities for the domain layer.
package entity

// CategoryType represents the type of category (expense or income).
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// Category is a lookup record used to resolve a free-text category name to an id on writes.
// It takes no part in reconciliation.
type Category struct {
	ID    uint
	Name  string
	Type  CategoryType
	Color *string
	Icon  *string
}
