package repository

import (
	"context"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository is the persistence port for products. Every method is scoped
// to the owner; lookups that find nothing return (nil, nil).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, ownerID, id int64) (*entity.Product, error)
	GetByBarcode(ctx context.Context, ownerID int64, barcode string) (*entity.Product, error)
	// GetByBarcodeForUpdate locks the matching row until the surrounding transaction ends.
	GetByBarcodeForUpdate(ctx context.Context, ownerID int64, barcode string) (*entity.Product, error)
	StockLevels(ctx context.Context, ownerID int64, ids []int64) ([]entity.StockLevel, error)
	StockLevelsForUpdate(ctx context.Context, ownerID int64, ids []int64) ([]entity.StockLevel, error)
	ListInStock(ctx context.Context, ownerID int64) ([]*entity.Product, error)
	ListForAdjustment(ctx context.Context, ownerID int64, filter entity.ProductFilter) ([]entity.StockLevel, error)
	Categories(ctx context.Context, ownerID int64) ([]string, error)
	// Update overwrites the editable columns; false when no row matched.
	Update(ctx context.Context, product *entity.Product) (bool, error)
	UpdatePrice(ctx context.Context, ownerID, id int64, price decimal.Decimal) error
	// DecrementStock subtracts qty only while quantity >= qty; false means nothing changed.
	DecrementStock(ctx context.Context, ownerID, id, qty int64) (bool, error)
	IncreaseStock(ctx context.Context, ownerID, id, qty int64, price decimal.Decimal) error
	ZeroQuantity(ctx context.Context, ownerID int64, ids []int64) (int64, error)
}
