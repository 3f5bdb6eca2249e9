// Package error defines domain-specific errors for the clinic finance backend.
package error

import "errors"

// Assistant domain errors.
var (
	// ErrAssistantUnavailable is returned when the generative service is not configured.
	ErrAssistantUnavailable = errors.New("assistant service is not configured")

	// ErrAssistantGenerationFailed is returned when the generative service call fails.
	ErrAssistantGenerationFailed = errors.New("assistant generation failed")

	// ErrEmptyChatMessage is returned when the user message is blank.
	ErrEmptyChatMessage = errors.New("chat message cannot be empty")

	// ErrUnsupportedDocument is returned when a scanned document is not an image or PDF.
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrDocumentTooLarge is returned when a scanned document exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrEmptyDocument is returned when a scanned document has no content.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrScanParseFailed is returned when the scan result is not valid JSON.
	ErrScanParseFailed = errors.New("failed to parse scan result")
)

// AssistantErrorCode defines error codes for assistant errors.
// Format: AST-XXYYYY where XX is category and YYYY is specific error.
type AssistantErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeEmptyChatMessage    AssistantErrorCode = "AST-010001"
	ErrCodeUnsupportedDocument AssistantErrorCode = "AST-010002"
	ErrCodeDocumentTooLarge    AssistantErrorCode = "AST-010003"
	ErrCodeEmptyDocument       AssistantErrorCode = "AST-010004"

	// Service errors (02XXXX)
	ErrCodeAssistantUnavailable AssistantErrorCode = "AST-020001"
	ErrCodeGenerationFailed     AssistantErrorCode = "AST-020002"
	ErrCodeScanParseFailed      AssistantErrorCode = "AST-020003"
	ErrCodeGenerationTimeout    AssistantErrorCode = "AST-020004"
	ErrCodeGenerationThrottled  AssistantErrorCode = "AST-020005"
)

// AssistantError represents an assistant error with code and message.
type AssistantError struct {
	Code    AssistantErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AssistantError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AssistantError) Unwrap() error {
	return e.Err
}

// NewAssistantError creates a new AssistantError with the given code and message.
func NewAssistantError(code AssistantErrorCode, message string, err error) *AssistantError {
	return &AssistantError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
