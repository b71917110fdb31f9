package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Stock only moves through the
// inventory engine, except for UpdateProduct and the soft delete.
type ProductUseCase struct {
	repo    repository.ProductRepository
	sources repository.SourceRepository
	tx      inventory.TxRunner
	now     func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, sources repository.SourceRepository, tx inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, sources: sources, tx: tx, now: time.Now}
}

// WithClock replaces the clock used for acceptance dates.
func (uc *ProductUseCase) WithClock(now func() time.Time) *ProductUseCase {
	uc.now = now
	return uc
}

// ListInStock lista los productos con existencias.
func (uc *ProductUseCase) ListInStock(ctx context.Context, ownerID int64) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListInStock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Products: out}, nil
}

// FindByBarcode returns domain.ErrNotFound when the owner has no such barcode.
func (uc *ProductUseCase) FindByBarcode(ctx context.Context, ownerID int64, barcode string) (*dto.ProductResponse, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", domain.ErrInvalidInput)
	}
	p, err := uc.repo.GetByBarcode(ctx, ownerID, barcode)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// AddProduct crea un producto nuevo con la fecha de hoy.
func (uc *ProductUseCase) AddProduct(ctx context.Context, ownerID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be greater than 0", domain.ErrInvalidInput)
	}
	if err := uc.requireSource(ctx, ownerID, in.SourceID); err != nil {
		return nil, err
	}
	p := &entity.Product{
		OwnerID:      ownerID,
		Barcode:      strings.TrimSpace(in.Barcode),
		Name:         strings.TrimSpace(in.ProductName),
		Price:        in.Price.Round(2),
		Quantity:     in.Quantity,
		Category:     strings.TrimSpace(in.Category),
		SourceID:     in.SourceID,
		DateAccepted: today(uc.now()),
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateBarcode(p.Barcode)
		}
		return nil, err
	}
	return toProductResponse(p), nil
}

// UpdateProduct overwrites the editable columns of one product.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, ownerID int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	current, err := uc.repo.GetByID(ctx, ownerID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if in.SourceID != current.SourceID {
		if err := uc.requireSource(ctx, ownerID, in.SourceID); err != nil {
			return nil, err
		}
	}
	accepted := current.DateAccepted
	if in.DateAccepted != "" {
		d, err := time.Parse(dto.DateLayout, in.DateAccepted)
		if err != nil {
			return nil, fmt.Errorf("%w: date_accepted", domain.ErrInvalidInput)
		}
		accepted = d
	}
	p := &entity.Product{
		ID:           in.ProductID,
		OwnerID:      ownerID,
		Barcode:      strings.TrimSpace(in.Barcode),
		Name:         strings.TrimSpace(in.ProductName),
		Price:        in.Price.Round(2),
		Quantity:     in.Quantity,
		Category:     strings.TrimSpace(in.Category),
		SourceID:     in.SourceID,
		DateAccepted: accepted,
	}
	ok, err := uc.repo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateBarcode(p.Barcode)
		}
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// AdjustPrices applies adj to every product matched by filter inside one
// transaction and returns how many were repriced.
func (uc *ProductUseCase) AdjustPrices(ctx context.Context, ownerID int64, filter entity.ProductFilter, adj entity.PriceAdjustment) (int, error) {
	if adj == nil {
		return 0, fmt.Errorf("%w: price change is required", domain.ErrInvalidInput)
	}
	updated := 0
	err := uc.tx.Run(ctx, func(products repository.ProductRepository, _ repository.SourceRepository, _ repository.TransactionRepository) error {
		rows, err := products.ListForAdjustment(ctx, ownerID, filter)
		if err != nil {
			return err
		}
		for _, r := range rows {
			next := adj.Apply(r.Price)
			if next.Equal(r.Price) {
				continue
			}
			if err := products.UpdatePrice(ctx, ownerID, r.ProductID, next); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// DeleteProducts soft-deletes by zeroing stock so ledger lines keep their product.
func (uc *ProductUseCase) DeleteProducts(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no product IDs provided", domain.ErrInvalidInput)
	}
	return uc.repo.ZeroQuantity(ctx, ownerID, ids)
}

// Categories lista las categorías en uso.
func (uc *ProductUseCase) Categories(ctx context.Context, ownerID int64) (*dto.CategoriesResponse, error) {
	cats, err := uc.repo.Categories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return &dto.CategoriesResponse{Categories: cats}, nil
}

// ParsePriceChange turns a bulk price request into an adjustment.
func ParsePriceChange(in dto.PriceChangeRequest) (entity.PriceAdjustment, error) {
	switch {
	case in.Changes != nil:
		switch in.Changes.Type {
		case dto.PriceChangePercentage:
			if in.Changes.Price.LessThanOrEqual(decimal.NewFromInt(-100)) {
				return nil, fmt.Errorf("%w: percentage must be greater than -100", domain.ErrInvalidInput)
			}
			return entity.PercentageAdjustment{Percent: in.Changes.Price}, nil
		case dto.PriceChangeNumber, "":
			return entity.AbsoluteAdjustment{Delta: in.Changes.Price}, nil
		default:
			return nil, fmt.Errorf("%w: unknown change type %q", domain.ErrInvalidInput, in.Changes.Type)
		}
	case in.PriceIncrease != nil:
		return entity.AbsoluteAdjustment{Delta: *in.PriceIncrease}, nil
	}
	return nil, fmt.Errorf("%w: changes are required", domain.ErrInvalidInput)
}

func (uc *ProductUseCase) requireSource(ctx context.Context, ownerID, sourceID int64) error {
	s, err := uc.sources.GetByID(ctx, ownerID, sourceID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: source %d does not exist", domain.ErrInvalidInput, sourceID)
	}
	return nil
}

func duplicateBarcode(barcode string) error {
	return fmt.Errorf("%w: barcode '%s' already exists", domain.ErrDuplicate, barcode)
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ProductID:    p.ID,
		Barcode:      p.Barcode,
		ProductName:  p.Name,
		Price:        p.Price,
		Quantity:     p.Quantity,
		Category:     p.Category,
		SourceID:     p.SourceID,
		SourceName:   p.SourceName,
		DateAccepted: p.DateAccepted.Format(dto.DateLayout),
	}
}
