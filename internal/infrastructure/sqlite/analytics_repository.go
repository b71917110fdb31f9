package sqlite

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo aggregates in Go: money is TEXT here and SQL sums would go
// through floating point.
type AnalyticsRepo struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

func (r *AnalyticsRepo) LedgerTotals(ctx context.Context, ownerID int64, from, to time.Time) (entity.LedgerTotals, error) {
	var models []transactionModel
	err := r.db.WithContext(ctx).
		Select("type", "total_amount").
		Where("user_id = ? AND transaction_date >= ? AND transaction_date < ?", ownerID, from.UTC(), to.UTC()).
		Find(&models).Error
	if err != nil {
		return entity.LedgerTotals{}, fmt.Errorf("ledger totals: %w", err)
	}
	t := entity.LedgerTotals{Sold: decimal.Zero, Bought: decimal.Zero}
	for _, m := range models {
		switch m.Type {
		case entity.TransactionSold:
			t.Sold = t.Sold.Add(m.Total)
			t.SoldCount++
		case entity.TransactionBought:
			t.Bought = t.Bought.Add(m.Total)
			t.BoughtCount++
		}
	}
	return t, nil
}

func (r *AnalyticsRepo) TopProducts(ctx context.Context, ownerID int64, from, to time.Time, limit int) ([]entity.ProductSales, error) {
	var lines []transactionItemModel
	err := r.db.WithContext(ctx).
		Table("transaction_items ti").
		Select("ti.product_id, ti.quantity, ti.price, COALESCE(p.product_name, '') AS product_name").
		Joins("JOIN transactions t ON t.transaction_id = ti.transaction_id").
		Joins("LEFT JOIN products p ON p.product_id = ti.product_id").
		Where("t.user_id = ? AND t.type = ? AND t.transaction_date >= ? AND t.transaction_date < ?",
			ownerID, entity.TransactionSold, from.UTC(), to.UTC()).
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	byID := make(map[int64]*entity.ProductSales)
	for _, l := range lines {
		ps, ok := byID[l.ProductID]
		if !ok {
			ps = &entity.ProductSales{ProductID: l.ProductID, ProductName: l.ProductName, Revenue: decimal.Zero}
			byID[l.ProductID] = ps
		}
		ps.Quantity += l.Quantity
		ps.Revenue = ps.Revenue.Add(l.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	out := make([]entity.ProductSales, 0, len(byID))
	for _, ps := range byID {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
