// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/clinic-finance/backend/internal/application/usecase/category"
)

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryListResponse converts the use case output to its response DTO.
func ToCategoryListResponse(output *category.ListCategoriesOutput) CategoryListResponse {
	categories := make([]CategoryResponse, len(output.Categories))
	for i, c := range output.Categories {
		categories[i] = CategoryResponse{
			ID:    c.ID,
			Name:  c.Name,
			Type:  string(c.Type),
			Color: c.Color,
			Icon:  c.Icon,
		}
	}
	return CategoryListResponse{Categories: categories}
}
