package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/clinic-finance/backend/internal/application/adapter"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/integration/persistence/model"
)

// localLedgerRepository implements the adapter.LocalLedgerRepository interface.
type localLedgerRepository struct {
	db *gorm.DB
}

// NewLocalLedgerRepository creates a new local ledger repository instance.
func NewLocalLedgerRepository(db *gorm.DB) adapter.LocalLedgerRepository {
	return &localLedgerRepository{
		db: db,
	}
}

// FindAll retrieves the full ledger with category names, most recent first.
func (r *localLedgerRepository) FindAll(ctx context.Context) ([]*adapter.LocalTransactionRow, error) {
	var transactionModels []model.TransactionModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Order("date DESC").
		Order("id DESC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rows := make([]*adapter.LocalTransactionRow, len(transactionModels))
	for i := range transactionModels {
		rows[i] = transactionModels[i].ToRow()
	}
	return rows, nil
}

// Create inserts a new ledger row.
func (r *localLedgerRepository) Create(ctx context.Context, write adapter.LedgerWrite) (uint, error) {
	transactionModel := model.TransactionFromWrite(write)
	if err := r.db.WithContext(ctx).Create(transactionModel).Error; err != nil {
		return 0, err
	}
	return transactionModel.ID, nil
}

// Update applies the set columns to an existing ledger row.
func (r *localLedgerRepository) Update(ctx context.Context, id uint, write adapter.LedgerWrite) error {
	columns := write.Columns()
	for _, name := range []string{"amount", "balance"} {
		if v, ok := columns[name].(float64); ok {
			columns[name] = model.ToMoney(v)
		}
	}

	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// Delete soft-deletes a ledger row.
func (r *localLedgerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.TransactionModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}
