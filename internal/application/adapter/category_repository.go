// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

// CategoryRepository defines read operations on the category lookup table.
type CategoryRepository interface {
	// FindAll returns all categories, optionally restricted to one type, ordered by name.
	FindAll(ctx context.Context, categoryType *entity.CategoryType) ([]*entity.Category, error)

	// FindByName returns the category whose name matches case-insensitively.
	FindByName(ctx context.Context, name string) (*entity.Category, error)
}
