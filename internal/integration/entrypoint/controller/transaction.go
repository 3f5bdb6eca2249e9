// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinic-finance/backend/internal/application/usecase/transaction"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/dto"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/middleware"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	listUseCase   *transaction.ListTransactionsUseCase
	createUseCase *transaction.CreateTransactionUseCase
	updateUseCase *transaction.UpdateTransactionUseCase
	deleteUseCase *transaction.DeleteTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	createUseCase *transaction.CreateTransactionUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	input := transaction.ListTransactionsInput{
		Search: ctx.Query("search"),
	}

	if typeStr := ctx.Query("type"); typeStr != "" {
		txnType := entity.TransactionType(typeStr)
		if !entity.IsValidTransactionType(txnType) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "type must be 'expense' or 'income'",
				Code:  string(domainerror.ErrCodeInvalidTransactionType),
			})
			return
		}
		input.Type = &txnType
	}

	if sourceStr := ctx.Query("source"); sourceStr != "" {
		source := entity.TransactionSource(sourceStr)
		if source != entity.SourceLocal && source != entity.SourceExternal {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "source must be 'local' or 'external'",
			})
			return
		}
		input.Source = &source
	}

	// Parse pagination
	if pageStr := ctx.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			input.Page = page
		}
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			input.Limit = limit
		}
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to list transactions", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve transactions",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	var req dto.TransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), transaction.CreateTransactionInput{
		Payload: req.ToPayload(),
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.TransactionIDResponse{ID: output.ID})
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	var req dto.TransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), transaction.UpdateTransactionInput{
		ID:      ctx.Param("id"),
		Payload: req.ToPayload(),
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TransactionIDResponse{ID: output.ID})
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		ID: ctx.Param("id"),
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleTransactionError handles transaction errors and returns appropriate HTTP responses.
func (c *TransactionController) handleTransactionError(ctx *gin.Context, err error) {
	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		statusCode := c.getStatusCodeForTransactionError(txnErr.Code)
		if statusCode >= http.StatusInternalServerError {
			middleware.LoggerFromContext(ctx).Error("Transaction write failed", "code", txnErr.Code, "error", err)
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	// Generic server error
	middleware.LoggerFromContext(ctx).Error("Unexpected transaction error", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForTransactionError maps transaction error codes to HTTP status codes.
func (c *TransactionController) getStatusCodeForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeExternalReadOnly:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidTransactionType,
		domainerror.ErrCodeInvalidTransactionDate,
		domainerror.ErrCodeInvalidTransactionID,
		domainerror.ErrCodeInvalidTransactionAmount,
		domainerror.ErrCodeMissingTransactionFields,
		domainerror.ErrCodeEmptyUpdate:
		return http.StatusBadRequest
	case domainerror.ErrCodeLedgerWriteFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
