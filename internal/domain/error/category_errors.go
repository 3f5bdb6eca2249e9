// Package error defines domain-specific errors for the clinic finance backend.
package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category lookup finds no row.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrInvalidCategoryType is returned when the category type filter is invalid.
	ErrInvalidCategoryType = errors.New("invalid category type")
)
