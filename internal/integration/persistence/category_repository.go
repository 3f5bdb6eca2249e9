// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// FindAll retrieves all categories, optionally filtered by type.
func (r *categoryRepository) FindAll(ctx context.Context, categoryType *entity.CategoryType) ([]*entity.Category, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if categoryType != nil {
		query = query.Where("type = ?", string(*categoryType))
	}

	var categoryModels []model.CategoryModel
	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToEntity()
	}
	return categories, nil
}

// FindByName retrieves a category by its name, ignoring case.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("id ASC").
		First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}
