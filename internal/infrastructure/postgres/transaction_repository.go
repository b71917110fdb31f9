package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implements the ledger over PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository builds the ledger adapter. Pass the pool or a tx.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserts the header and sets its ID.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO transactions (user_id, source_id, total_amount, type, transaction_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING transaction_id`,
		t.OwnerID, t.SourceID, t.Total, t.Type, t.Date,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateItems inserts all lines in one batch round trip.
func (r *TransactionRepo) CreateItems(ctx context.Context, items []*entity.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	const query = `
		INSERT INTO transaction_items (transaction_id, product_id, user_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING transaction_item_id`
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query, it.TransactionID, it.ProductID, it.OwnerID, it.Quantity, it.Price)
	}
	br := r.q.SendBatch(ctx, batch)
	for _, it := range items {
		if err := br.QueryRow().Scan(&it.ID); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert transaction item: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert transaction items: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, ownerID, id int64) (*entity.Transaction, error) {
	var t entity.Transaction
	err := r.q.QueryRow(ctx, `
		SELECT transaction_id, user_id, source_id, total_amount, type, transaction_date
		FROM transactions WHERE user_id = $1 AND transaction_id = $2`,
		ownerID, id,
	).Scan(&t.ID, &t.OwnerID, &t.SourceID, &t.Total, &t.Type, &t.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepo) List(ctx context.Context, ownerID int64, txType string) ([]*entity.Transaction, error) {
	query := `
		SELECT transaction_id, user_id, source_id, total_amount, type, transaction_date
		FROM transactions WHERE user_id = $1 AND ($2::text = '' OR type = $2)
		ORDER BY transaction_date DESC, transaction_id DESC`
	rows, err := r.q.Query(ctx, query, ownerID, txType)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.SourceID, &t.Total, &t.Type, &t.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *TransactionRepo) ListItems(ctx context.Context, ownerID, transactionID int64) ([]*entity.TransactionItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ti.transaction_item_id, ti.transaction_id, ti.product_id, ti.user_id, ti.quantity, ti.price,
			COALESCE(p.product_name, '')
		FROM transaction_items ti
		LEFT JOIN products p ON p.product_id = ti.product_id
		WHERE ti.transaction_id = $1 AND ti.user_id = $2
		ORDER BY ti.transaction_item_id`,
		transactionID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransactionItem
	for rows.Next() {
		var it entity.TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.OwnerID, &it.Quantity, &it.Price, &it.ProductName); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete removes the owner's transactions and their items. Run it inside a TxRunner.
func (r *TransactionRepo) Delete(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	_, err := r.q.Exec(ctx, `
		DELETE FROM transaction_items
		WHERE transaction_id IN (SELECT transaction_id FROM transactions WHERE user_id = $1 AND transaction_id = ANY($2))`,
		ownerID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete transaction items: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND transaction_id = ANY($2)`, ownerID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return cmd.RowsAffected(), nil
}
