// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinic-finance/backend/internal/application/usecase/category"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/dto"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/middleware"
)

// CategoryController handles category endpoints.
type CategoryController struct {
	listUseCase *category.ListCategoriesUseCase
}

// NewCategoryController creates a new category controller instance.
func NewCategoryController(listUseCase *category.ListCategoriesUseCase) *CategoryController {
	return &CategoryController{
		listUseCase: listUseCase,
	}
}

// List handles GET /categories requests.
func (c *CategoryController) List(ctx *gin.Context) {
	input := category.ListCategoriesInput{}
	if typeStr := ctx.Query("type"); typeStr != "" {
		categoryType := entity.CategoryType(typeStr)
		input.CategoryType = &categoryType
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domainerror.ErrInvalidCategoryType) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "type must be 'expense' or 'income'",
			})
			return
		}
		middleware.LoggerFromContext(ctx).Error("Failed to list categories", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve categories",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(output))
}
