// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinic-finance/backend/internal/application/usecase/assistant"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/dto"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/middleware"
)

// ScanFormField is the multipart field carrying the scanned document.
const ScanFormField = "file"

// AssistantController handles the chat assistant and document scanning endpoints.
type AssistantController struct {
	chatUseCase *assistant.ChatUseCase
	scanUseCase *assistant.ScanDocumentUseCase
}

// NewAssistantController creates a new assistant controller instance.
func NewAssistantController(
	chatUseCase *assistant.ChatUseCase,
	scanUseCase *assistant.ScanDocumentUseCase,
) *AssistantController {
	return &AssistantController{
		chatUseCase: chatUseCase,
		scanUseCase: scanUseCase,
	}
}

// Chat handles POST /assistant/chat requests.
func (c *AssistantController) Chat(ctx *gin.Context) {
	var req dto.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
			Code:    string(domainerror.ErrCodeEmptyChatMessage),
		})
		return
	}

	output, err := c.chatUseCase.Execute(ctx.Request.Context(), req.ToInput())
	if err != nil {
		c.handleAssistantError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToChatResponse(output))
}

// Scan handles POST /assistant/scan requests.
func (c *AssistantController) Scan(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile(ScanFormField)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "A document must be uploaded in the 'file' field",
			Code:  string(domainerror.ErrCodeEmptyDocument),
		})
		return
	}
	if fileHeader.Size > assistant.MaxDocumentSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error: "Document exceeds the 10 MB limit",
			Code:  string(domainerror.ErrCodeDocumentTooLarge),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to open uploaded document", "error", err)
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Failed to read uploaded document",
		})
		return
	}
	defer file.Close()

	// One extra byte lets the use case detect oversize bodies whose header lied.
	data, err := io.ReadAll(io.LimitReader(file, assistant.MaxDocumentSize+1))
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to read uploaded document", "error", err)
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Failed to read uploaded document",
		})
		return
	}

	output, err := c.scanUseCase.Execute(ctx.Request.Context(), assistant.ScanDocumentInput{
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		c.handleAssistantError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceScanResponse(output))
}

// handleAssistantError handles assistant errors and returns appropriate HTTP responses.
func (c *AssistantController) handleAssistantError(ctx *gin.Context, err error) {
	var astErr *domainerror.AssistantError
	if errors.As(err, &astErr) {
		statusCode := c.getStatusCodeForAssistantError(astErr.Code)
		if statusCode >= http.StatusInternalServerError {
			middleware.LoggerFromContext(ctx).Error("Assistant request failed", "code", astErr.Code, "error", err)
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: astErr.Message,
			Code:  string(astErr.Code),
		})
		return
	}

	middleware.LoggerFromContext(ctx).Error("Unexpected assistant error", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForAssistantError maps assistant error codes to HTTP status codes.
func (c *AssistantController) getStatusCodeForAssistantError(code domainerror.AssistantErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmptyChatMessage,
		domainerror.ErrCodeUnsupportedDocument,
		domainerror.ErrCodeEmptyDocument:
		return http.StatusBadRequest
	case domainerror.ErrCodeDocumentTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeAssistantUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeGenerationFailed,
		domainerror.ErrCodeScanParseFailed:
		return http.StatusBadGateway
	case domainerror.ErrCodeGenerationTimeout:
		return http.StatusGatewayTimeout
	case domainerror.ErrCodeGenerationThrottled:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
