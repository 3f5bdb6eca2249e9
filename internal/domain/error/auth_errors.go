// Package error defines domain-specific errors for the clinic finance backend.
package error

import "errors"

// Auth domain errors.
var (
	// ErrInvalidToken is returned when a bearer token cannot be validated.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a bearer token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Rate limiting (02XXXX)
	ErrCodeRateLimited AuthErrorCode = "AUTH-020003"

	// Token errors (03XXXX)
	ErrCodeInvalidToken AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken AuthErrorCode = "AUTH-030003"
)
