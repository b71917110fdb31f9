package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner runs callbacks inside a SQLite transaction (BEGIN/COMMIT/ROLLBACK).
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run hands fn repositories bound to one gorm transaction. A returned error rolls back.
func (r *TxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	sources repository.SourceRepository,
	ledger repository.TransactionRepository,
) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewProductRepository(tx), NewSourceRepository(tx), NewTransactionRepository(tx))
	})
}

// Atomicity reports real transactions: with one connection, the unit is exclusive.
func (r *TxRunner) Atomicity() inventory.Atomicity {
	return inventory.AtomicityTransactional
}
