package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implements the ledger with gorm.
type TransactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	m := transactionModel{OwnerID: t.OwnerID, SourceID: t.SourceID, Total: t.Total, Type: t.Type, Date: t.Date.UTC()}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	t.ID = m.ID
	return nil
}

// CreateItems inserts every line with a single multi-row INSERT.
func (r *TransactionRepo) CreateItems(ctx context.Context, items []*entity.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]transactionItemModel, 0, len(items))
	for _, it := range items {
		models = append(models, transactionItemModel{
			TransactionID: it.TransactionID,
			ProductID:     it.ProductID,
			OwnerID:       it.OwnerID,
			Quantity:      it.Quantity,
			Price:         it.Price,
		})
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("insert transaction items: %w", err)
	}
	for i := range models {
		items[i].ID = models[i].ID
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, ownerID, id int64) (*entity.Transaction, error) {
	var m transactionModel
	err := r.db.WithContext(ctx).Where("user_id = ? AND transaction_id = ?", ownerID, id).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return m.toEntity(), nil
}

func (r *TransactionRepo) List(ctx context.Context, ownerID int64, txType string) ([]*entity.Transaction, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	var models []transactionModel
	if err := q.Order("transaction_date DESC, transaction_id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out, nil
}

func (r *TransactionRepo) ListItems(ctx context.Context, ownerID, transactionID int64) ([]*entity.TransactionItem, error) {
	var models []transactionItemModel
	err := r.db.WithContext(ctx).
		Table("transaction_items ti").
		Select("ti.*, COALESCE(p.product_name, '') AS product_name").
		Joins("LEFT JOIN products p ON p.product_id = ti.product_id").
		Where("ti.transaction_id = ? AND ti.user_id = ?", transactionID, ownerID).
		Order("ti.transaction_item_id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	out := make([]*entity.TransactionItem, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out, nil
}

// Delete removes items before headers. Run it inside a TxRunner.
func (r *TransactionRepo) Delete(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ? AND transaction_id IN ?", ownerID, ids).Delete(&transactionItemModel{}).Error; err != nil {
		return 0, fmt.Errorf("delete transaction items: %w", err)
	}
	res := db.Where("user_id = ? AND transaction_id IN ?", ownerID, ids).Delete(&transactionModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete transactions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
