package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements ProductRepository over PostgreSQL (pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the product adapter. Pass the pool or a tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.product_id, p.user_id, p.barcode, p.product_name, p.price, p.quantity,
	p.category, p.source_id, COALESCE(s.name, ''), p.date_accepted`

const productFrom = `FROM products p LEFT JOIN sources s ON s.source_id = p.source_id AND s.user_id = p.user_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.OwnerID, &p.Barcode, &p.Name, &p.Price, &p.Quantity,
		&p.Category, &p.SourceID, &p.SourceName, &p.DateAccepted)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the product and sets its ID.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (user_id, barcode, product_name, price, quantity, category, source_id, date_accepted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING product_id`
	err := r.q.QueryRow(ctx, query,
		p.OwnerID, p.Barcode, p.Name, p.Price, p.Quantity, p.Category, p.SourceID, p.DateAccepted,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID returns the owner's product or nil.
func (r *ProductRepo) GetByID(ctx context.Context, ownerID, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` WHERE p.user_id = $1 AND p.product_id = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByBarcode returns the owner's product with that barcode or nil.
func (r *ProductRepo) GetByBarcode(ctx context.Context, ownerID int64, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` WHERE p.user_id = $1 AND p.barcode = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, ownerID, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// GetByBarcodeForUpdate is GetByBarcode with a row lock (SELECT ... FOR UPDATE OF p).
func (r *ProductRepo) GetByBarcodeForUpdate(ctx context.Context, ownerID int64, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` WHERE p.user_id = $1 AND p.barcode = $2 FOR UPDATE OF p`
	p, err := scanProduct(r.q.QueryRow(ctx, query, ownerID, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode for update: %w", err)
	}
	return p, nil
}

// StockLevels reads (id, name, price, quantity) for the ids in one round trip.
func (r *ProductRepo) StockLevels(ctx context.Context, ownerID int64, ids []int64) ([]entity.StockLevel, error) {
	return r.stockLevels(ctx, ownerID, ids, "")
}

// StockLevelsForUpdate locks the rows in id order so concurrent sales cannot deadlock.
func (r *ProductRepo) StockLevelsForUpdate(ctx context.Context, ownerID int64, ids []int64) ([]entity.StockLevel, error) {
	return r.stockLevels(ctx, ownerID, ids, " FOR UPDATE")
}

func (r *ProductRepo) stockLevels(ctx context.Context, ownerID int64, ids []int64, suffix string) ([]entity.StockLevel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT product_id, product_name, price, quantity
		FROM products WHERE user_id = $1 AND product_id = ANY($2)
		ORDER BY product_id` + suffix
	rows, err := r.q.Query(ctx, query, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("read stock levels: %w", err)
	}
	defer rows.Close()
	var out []entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ProductID, &s.Name, &s.Price, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListInStock lists the owner's products with quantity > 0 and their source name.
func (r *ProductRepo) ListInStock(ctx context.Context, ownerID int64) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.user_id = $1 AND p.quantity > 0 ORDER BY p.product_name, p.product_id`
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListForAdjustment returns the current price of every product the filter matches, locked.
func (r *ProductRepo) ListForAdjustment(ctx context.Context, ownerID int64, f entity.ProductFilter) ([]entity.StockLevel, error) {
	query := `SELECT product_id, product_name, price, quantity FROM products WHERE user_id = $1`
	args := []any{ownerID}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.SourceID != 0 {
		args = append(args, f.SourceID)
		query += fmt.Sprintf(" AND source_id = $%d", len(args))
	}
	if len(f.ProductIDs) > 0 {
		args = append(args, f.ProductIDs)
		query += fmt.Sprintf(" AND product_id = ANY($%d)", len(args))
	}
	query += " ORDER BY product_id FOR UPDATE"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products for adjustment: %w", err)
	}
	defer rows.Close()
	var out []entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ProductID, &s.Name, &s.Price, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Categories returns the owner's distinct non-empty categories.
func (r *ProductRepo) Categories(ctx context.Context, ownerID int64) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT category FROM products WHERE user_id = $1 AND category <> '' ORDER BY category`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update overwrites the editable columns of the owner's product.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) (bool, error) {
	query := `
		UPDATE products SET barcode = $3, product_name = $4, price = $5, quantity = $6,
			category = $7, source_id = $8, date_accepted = $9
		WHERE user_id = $1 AND product_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.OwnerID, p.ID, p.Barcode, p.Name, p.Price, p.Quantity, p.Category, p.SourceID, p.DateAccepted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrDuplicate
		}
		return false, fmt.Errorf("update product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// UpdatePrice sets one product's price.
func (r *ProductRepo) UpdatePrice(ctx context.Context, ownerID, id int64, price decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET price = $3 WHERE user_id = $1 AND product_id = $2`, ownerID, id, price)
	if err != nil {
		return fmt.Errorf("update product price: %w", err)
	}
	return nil
}

// DecrementStock subtracts qty only if enough stock remains.
func (r *ProductRepo) DecrementStock(ctx context.Context, ownerID, id, qty int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET quantity = quantity - $3
		WHERE user_id = $1 AND product_id = $2 AND quantity >= $3`,
		ownerID, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// IncreaseStock adds qty and overwrites the price.
func (r *ProductRepo) IncreaseStock(ctx context.Context, ownerID, id, qty int64, price decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET quantity = quantity + $3, price = $4
		WHERE user_id = $1 AND product_id = $2`,
		ownerID, id, qty, price)
	if err != nil {
		return fmt.Errorf("increase stock: %w", err)
	}
	return nil
}

// ZeroQuantity soft-deletes products by emptying their stock.
func (r *ProductRepo) ZeroQuantity(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET quantity = 0 WHERE user_id = $1 AND product_id = ANY($2)`, ownerID, ids)
	if err != nil {
		return 0, fmt.Errorf("zero product quantity: %w", err)
	}
	return cmd.RowsAffected(), nil
}
