package repository

import (
	"context"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
)

// TransactionRepository is the ledger port: headers and their line items.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	CreateItems(ctx context.Context, items []*entity.TransactionItem) error
	GetByID(ctx context.Context, ownerID, id int64) (*entity.Transaction, error)
	// List returns newest first; an empty txType matches every type.
	List(ctx context.Context, ownerID int64, txType string) ([]*entity.Transaction, error)
	ListItems(ctx context.Context, ownerID, transactionID int64) ([]*entity.TransactionItem, error)
	// Delete removes the items before the headers; both must run in one transaction.
	Delete(ctx context.Context, ownerID int64, ids []int64) (int64, error)
}
