// Package dto defines data transfer objects for API requests and responses.
package dto

import "github.com/shopspring/decimal"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Money rounds an amount to two decimals for presentation.
func Money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// MoneyString formats an amount with exactly two decimals.
func MoneyString(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
