package repository

import (
	"context"
	"time"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
)

// AnalyticsRepository consultas de solo lectura sobre el ledger.
// Periods are half-open: from <= transaction_date < to.
type AnalyticsRepository interface {
	LedgerTotals(ctx context.Context, ownerID int64, from, to time.Time) (entity.LedgerTotals, error)
	// TopProducts ranks sold products by revenue, highest first.
	TopProducts(ctx context.Context, ownerID int64, from, to time.Time, limit int) ([]entity.ProductSales, error)
}
