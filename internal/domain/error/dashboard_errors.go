// Package error defines domain-specific errors for the clinic finance backend.
package error

import "errors"

// Dashboard domain errors.
var (
	// ErrInvalidTopN is returned when a top-N truncation value is not a positive integer.
	ErrInvalidTopN = errors.New("top must be a positive integer")

	// ErrInvalidBucketCount is returned when a trend bucket count is not a positive integer.
	ErrInvalidBucketCount = errors.New("buckets must be a positive integer")
)

// DashboardErrorCode defines error codes for dashboard errors.
// Format: DSH-XXYYYY where XX is category and YYYY is specific error.
type DashboardErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTopN        DashboardErrorCode = "DSH-010001"
	ErrCodeInvalidBucketCount DashboardErrorCode = "DSH-010002"

	// Internal errors (99XXXX)
	ErrCodeDashboardInternalError DashboardErrorCode = "DSH-990001"
)

// DashboardError represents a dashboard error with code and message.
type DashboardError struct {
	Code    DashboardErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DashboardError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *DashboardError) Unwrap() error {
	return e.Err
}

// NewDashboardError creates a new DashboardError with the given code and message.
func NewDashboardError(code DashboardErrorCode, message string, err error) *DashboardError {
	return &DashboardError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
