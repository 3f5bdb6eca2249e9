// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clinic-finance/backend/internal/application/adapter"
)

// TransactionModel represents the local ledger transactions table.
type TransactionModel struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"`
	Type          string          `gorm:"type:varchar(20);not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Balance       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Date          *time.Time      `gorm:"type:date;index"`
	Time          *string         `gorm:"type:varchar(8)"`
	Description   *string         `gorm:"type:text"`
	TreatmentName *string         `gorm:"type:varchar(255)"`
	PatientName   *string         `gorm:"type:varchar(255)"`
	DoctorName    *string         `gorm:"type:varchar(255)"`
	PaymentCode   *string         `gorm:"type:varchar(100)"`
	Method        *string         `gorm:"type:varchar(50)"`
	Status        *string         `gorm:"type:varchar(50)"`
	IssuerRUC     *string         `gorm:"column:issuer_ruc;type:varchar(20)"`
	CategoryID    *uint           `gorm:"index"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToRow converts a TransactionModel to a local ledger row.
func (m *TransactionModel) ToRow() *adapter.LocalTransactionRow {
	row := &adapter.LocalTransactionRow{
		ID:            m.ID,
		Type:          m.Type,
		Amount:        m.Amount.InexactFloat64(),
		Balance:       m.Balance.InexactFloat64(),
		Date:          m.Date,
		Time:          m.Time,
		Description:   m.Description,
		TreatmentName: m.TreatmentName,
		PatientName:   m.PatientName,
		DoctorName:    m.DoctorName,
		PaymentCode:   m.PaymentCode,
		Method:        m.Method,
		Status:        m.Status,
		IssuerRUC:     m.IssuerRUC,
	}
	if m.Category != nil {
		name := m.Category.Name
		row.CategoryName = &name
	}
	return row
}

// TransactionFromWrite creates a TransactionModel from a ledger write.
func TransactionFromWrite(write adapter.LedgerWrite) *TransactionModel {
	m := &TransactionModel{
		Date:          write.Date,
		Time:          write.Time,
		Description:   write.Description,
		TreatmentName: write.TreatmentName,
		PatientName:   write.PatientName,
		DoctorName:    write.DoctorName,
		PaymentCode:   write.PaymentCode,
		Method:        write.Method,
		Status:        write.Status,
		IssuerRUC:     write.IssuerRUC,
		CategoryID:    write.CategoryID,
	}
	if write.Type != nil {
		m.Type = *write.Type
	}
	if write.Amount != nil {
		m.Amount = ToMoney(*write.Amount)
	}
	if write.Balance != nil {
		m.Balance = ToMoney(*write.Balance)
	}
	return m
}

// ToMoney rounds a float amount to the two decimals of the numeric columns.
func ToMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
