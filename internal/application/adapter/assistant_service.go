// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

// AssistantRequest is one turn sent to the generative text service.
type AssistantRequest struct {
	SystemInstruction string
	History           []entity.ChatMessage
	Message           string
	// ContextJSON is the live MetricsSnapshot serialized as JSON.
	ContextJSON string
}

// AssistantService defines the interface for the financial Q&A assistant.
type AssistantService interface {
	// Reply returns the free-text reply of the assistant.
	Reply(ctx context.Context, request *AssistantRequest) (string, error)

	// IsAvailable checks if the service is properly configured.
	IsAvailable() bool
}

// DocumentInput is a scanned invoice or receipt.
type DocumentInput struct {
	MIMEType string
	Data     []byte
}

// DocumentScanner defines the interface for invoice autofill.
type DocumentScanner interface {
	// Scan returns the invoice fields the service could read.
	Scan(ctx context.Context, document *DocumentInput) (*entity.InvoiceScan, error)

	// IsAvailable checks if the service is properly configured.
	IsAvailable() bool
}
