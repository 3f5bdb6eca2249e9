// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	CategoryType *entity.CategoryType // Optional filter by category type
}

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*CategoryOutput
}

// CategoryOutput represents a single category in the output.
type CategoryOutput struct {
	ID    uint
	Name  string
	Type  entity.CategoryType
	Color *string
	Icon  *string
}

// ListCategoriesUseCase handles listing categories logic.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category listing.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	if input.CategoryType != nil &&
		*input.CategoryType != entity.CategoryTypeExpense &&
		*input.CategoryType != entity.CategoryTypeIncome {
		return nil, domainerror.ErrInvalidCategoryType
	}

	categories, err := uc.categoryRepo.FindAll(ctx, input.CategoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	output := &ListCategoriesOutput{
		Categories: make([]*CategoryOutput, len(categories)),
	}
	for i, cat := range categories {
		output.Categories[i] = &CategoryOutput{
			ID:    cat.ID,
			Name:  cat.Name,
			Type:  cat.Type,
			Color: cat.Color,
			Icon:  cat.Icon,
		}
	}

	return output, nil
}
