package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements ProductRepository with gorm. Locking clauses are
// accepted and dropped by the SQLite dialect; the single connection already
// makes the surrounding transaction exclusive.
type ProductRepo struct {
	db *gorm.DB
}

// NewProductRepository builds the adapter over db or a transaction handle.
func NewProductRepository(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) withSource(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products p").
		Select("p.*, COALESCE(s.name, '') AS source_name").
		Joins("LEFT JOIN sources s ON s.source_id = p.source_id AND s.user_id = p.user_id")
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	m := productFromEntity(p)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = m.ID
	return nil
}

func (r *ProductRepo) first(q *gorm.DB, op string) (*entity.Product, error) {
	var m productModel
	err := q.Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m.toEntity(), nil
}

func (r *ProductRepo) GetByID(ctx context.Context, ownerID, id int64) (*entity.Product, error) {
	return r.first(r.withSource(ctx).Where("p.user_id = ? AND p.product_id = ?", ownerID, id), "get product")
}

func (r *ProductRepo) GetByBarcode(ctx context.Context, ownerID int64, barcode string) (*entity.Product, error) {
	return r.first(r.withSource(ctx).Where("p.user_id = ? AND p.barcode = ?", ownerID, barcode), "get product by barcode")
}

func (r *ProductRepo) GetByBarcodeForUpdate(ctx context.Context, ownerID int64, barcode string) (*entity.Product, error) {
	q := r.withSource(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("p.user_id = ? AND p.barcode = ?", ownerID, barcode)
	return r.first(q, "get product by barcode for update")
}

func (r *ProductRepo) StockLevels(ctx context.Context, ownerID int64, ids []int64) ([]entity.StockLevel, error) {
	return r.stockLevels(r.db.WithContext(ctx), ownerID, ids)
}

func (r *ProductRepo) StockLevelsForUpdate(ctx context.Context, ownerID int64, ids []int64) ([]entity.StockLevel, error) {
	return r.stockLevels(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), ownerID, ids)
}

func (r *ProductRepo) stockLevels(q *gorm.DB, ownerID int64, ids []int64) ([]entity.StockLevel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []stockRow
	err := q.Model(&productModel{}).
		Select("product_id, product_name, price, quantity").
		Where("user_id = ? AND product_id IN ?", ownerID, ids).
		Order("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read stock levels: %w", err)
	}
	out := make([]entity.StockLevel, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *ProductRepo) ListInStock(ctx context.Context, ownerID int64) ([]*entity.Product, error) {
	var models []productModel
	err := r.withSource(ctx).
		Where("p.user_id = ? AND p.quantity > 0", ownerID).
		Order("p.product_name, p.product_id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out, nil
}

func (r *ProductRepo) ListForAdjustment(ctx context.Context, ownerID int64, f entity.ProductFilter) ([]entity.StockLevel, error) {
	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&productModel{}).
		Select("product_id, product_name, price, quantity").
		Where("user_id = ?", ownerID)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.SourceID != 0 {
		q = q.Where("source_id = ?", f.SourceID)
	}
	if len(f.ProductIDs) > 0 {
		q = q.Where("product_id IN ?", f.ProductIDs)
	}
	var rows []stockRow
	if err := q.Order("product_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products for adjustment: %w", err)
	}
	out := make([]entity.StockLevel, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *ProductRepo) Categories(ctx context.Context, ownerID int64) ([]string, error) {
	out := []string{}
	err := r.db.WithContext(ctx).Model(&productModel{}).
		Distinct("category").
		Where("user_id = ? AND category <> ''", ownerID).
		Order("category").
		Pluck("category", &out).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) (bool, error) {
	m := productFromEntity(p)
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("user_id = ? AND product_id = ?", p.OwnerID, p.ID).
		Updates(map[string]any{
			"barcode":       m.Barcode,
			"product_name":  m.Name,
			"price":         m.Price,
			"quantity":      m.Quantity,
			"category":      m.Category,
			"source_id":     m.SourceID,
			"date_accepted": m.DateAccepted,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, domain.ErrDuplicate
		}
		return false, fmt.Errorf("update product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ProductRepo) UpdatePrice(ctx context.Context, ownerID, id int64, price decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&productModel{}).
		Where("user_id = ? AND product_id = ?", ownerID, id).
		Update("price", price).Error
	if err != nil {
		return fmt.Errorf("update product price: %w", err)
	}
	return nil
}

func (r *ProductRepo) DecrementStock(ctx context.Context, ownerID, id, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("user_id = ? AND product_id = ? AND quantity >= ?", ownerID, id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("decrement stock: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ProductRepo) IncreaseStock(ctx context.Context, ownerID, id, qty int64, price decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&productModel{}).
		Where("user_id = ? AND product_id = ?", ownerID, id).
		Updates(map[string]any{
			"quantity": gorm.Expr("quantity + ?", qty),
			"price":    price,
		}).Error
	if err != nil {
		return fmt.Errorf("increase stock: %w", err)
	}
	return nil
}

func (r *ProductRepo) ZeroQuantity(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("user_id = ? AND product_id IN ?", ownerID, ids).
		Update("quantity", 0)
	if res.Error != nil {
		return 0, fmt.Errorf("zero product quantity: %w", res.Error)
	}
	return res.RowsAffected, nil
}
