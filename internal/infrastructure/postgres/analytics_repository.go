package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el resumen de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// LedgerTotals suma ventas y compras del período.
// COALESCE devuelve cero si no hay filas (período sin movimientos).
func (r *AnalyticsRepo) LedgerTotals(ctx context.Context, ownerID int64, from, to time.Time) (entity.LedgerTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(total_amount) FILTER (WHERE type = 'sold'),   0) AS sold,
	    COALESCE(SUM(total_amount) FILTER (WHERE type = 'bought'), 0) AS bought,
	    COUNT(*) FILTER (WHERE type = 'sold')                         AS sold_count,
	    COUNT(*) FILTER (WHERE type = 'bought')                       AS bought_count
	FROM transactions
	WHERE user_id = $1
	  AND transaction_date >= $2
	  AND transaction_date <  $3`

	var t entity.LedgerTotals
	err := r.q.QueryRow(ctx, query, ownerID, from, to).
		Scan(&t.Sold, &t.Bought, &t.SoldCount, &t.BoughtCount)
	if err != nil {
		return entity.LedgerTotals{}, fmt.Errorf("analytics.LedgerTotals: %w", err)
	}
	return t, nil
}

// TopProducts devuelve los `limit` productos con mayor ingreso vendido en el período.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, ownerID int64, from, to time.Time, limit int) ([]entity.ProductSales, error) {
	const query = `
	SELECT
	    ti.product_id,
	    COALESCE(p.product_name, '')       AS product_name,
	    SUM(ti.quantity)::bigint           AS quantity_sold,
	    SUM(ti.quantity * ti.price)        AS revenue
	FROM transaction_items ti
	JOIN transactions t   ON t.transaction_id = ti.transaction_id
	LEFT JOIN products p  ON p.product_id     = ti.product_id
	WHERE t.user_id = $1
	  AND t.type    = 'sold'
	  AND t.transaction_date >= $2
	  AND t.transaction_date <  $3
	GROUP BY ti.product_id, p.product_name
	ORDER BY revenue DESC, ti.product_id
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, ownerID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	results := []entity.ProductSales{}
	for rows.Next() {
		var item entity.ProductSales
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.TopProducts rows: %w", err)
	}
	return results, nil
}
