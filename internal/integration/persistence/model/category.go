// Package model defines database models for persistence layer.
package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

// CategoryModel represents the categories table in the database.
type CategoryModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	Name      string         `gorm:"type:varchar(100);not null;index"`
	Type      string         `gorm:"type:varchar(10);not null"`
	Color     *string        `gorm:"type:varchar(7)"`
	Icon      *string        `gorm:"type:varchar(50)"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:    m.ID,
		Name:  m.Name,
		Type:  entity.CategoryType(m.Type),
		Color: m.Color,
		Icon:  m.Icon,
	}
}

// CategoryFromEntity creates a CategoryModel from a domain Category entity.
func CategoryFromEntity(category *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:    category.ID,
		Name:  category.Name,
		Type:  string(category.Type),
		Color: category.Color,
		Icon:  category.Icon,
	}
}
