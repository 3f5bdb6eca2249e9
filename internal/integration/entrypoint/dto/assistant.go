// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/clinic-finance/backend/internal/application/usecase/assistant"
	"github.com/clinic-finance/backend/internal/domain/entity"
)

// ChatMessageRequest represents one previous turn of the conversation.
type ChatMessageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// ChatRequest represents the request body for an assistant turn.
type ChatRequest struct {
	Message string               `json:"message" binding:"required"`
	History []ChatMessageRequest `json:"history,omitempty" binding:"omitempty,dive"`
}

// ToInput converts the request to a use case input.
func (r *ChatRequest) ToInput() assistant.ChatInput {
	history := make([]entity.ChatMessage, len(r.History))
	for i, m := range r.History {
		history[i] = entity.ChatMessage{
			Role:    entity.ChatRole(m.Role),
			Content: m.Content,
		}
	}
	return assistant.ChatInput{
		Message: r.Message,
		History: history,
	}
}

// AssistantActionResponse represents a structured command of the reply.
type AssistantActionResponse struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// ChatResponse represents the assistant reply.
type ChatResponse struct {
	Text   string                   `json:"text"`
	Action *AssistantActionResponse `json:"action,omitempty"`
}

// ToChatResponse converts the chat output to its response DTO.
func ToChatResponse(output *assistant.ChatOutput) ChatResponse {
	response := ChatResponse{Text: output.Text}
	if output.Action != nil {
		response.Action = &AssistantActionResponse{
			Type:    string(output.Action.Type),
			Payload: output.Action.Payload,
		}
	}
	return response
}

// InvoiceScanResponse represents the autofill suggestion. Null fields must
// leave the corresponding form value unchanged.
type InvoiceScanResponse struct {
	IssuerRUC     *string  `json:"issuer_ruc"`
	IssuerName    *string  `json:"issuer_name"`
	InvoiceNumber *string  `json:"invoice_number"`
	Date          *string  `json:"date"`
	Amount        *float64 `json:"amount"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Method        *string  `json:"method"`
}

// ToInvoiceScanResponse converts the scan output to its response DTO.
func ToInvoiceScanResponse(output *assistant.ScanDocumentOutput) InvoiceScanResponse {
	scan := output.Scan
	if scan == nil {
		return InvoiceScanResponse{}
	}
	response := InvoiceScanResponse{
		IssuerRUC:     scan.IssuerRUC,
		IssuerName:    scan.IssuerName,
		InvoiceNumber: scan.InvoiceNumber,
		Date:          scan.Date,
		Description:   scan.Description,
		Category:      scan.Category,
		Method:        scan.Method,
	}
	if scan.Amount != nil {
		amount := Money(*scan.Amount)
		response.Amount = &amount
	}
	return response
}
