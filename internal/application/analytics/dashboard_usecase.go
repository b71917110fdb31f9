// Package analytics contiene los casos de uso de reportes sobre el ledger.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase genera el resumen de ventas y compras del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock replaces the wall clock that anchors "today" and "this month".
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el resumen para el dueño indicado. Periods are UTC,
// matching how ledger dates are stored.
//
// Tres llamadas en paralelo:
//  1. LedgerTotals(hoy)
//  2. LedgerTotals(mes)
//  3. TopProducts(mes, top 5)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, ownerID int64) (*dto.DashboardSummaryResponse, error) {
	now := uc.now().UTC()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	type totalsResult struct {
		totals entity.LedgerTotals
		err    error
	}
	type topResult struct {
		products []entity.ProductSales
		err      error
	}

	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		t, err := uc.analyticsRepo.LedgerTotals(ctx, ownerID, todayStart, todayEnd)
		todayCh <- totalsResult{t, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.LedgerTotals(ctx, ownerID, monthStart, todayEnd)
		monthCh <- totalsResult{t, err}
	}()
	go func() {
		p, err := uc.analyticsRepo.TopProducts(ctx, ownerID, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{p, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: totales de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: totales del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}

	products := make([]dto.TopProductResponse, 0, len(top.products))
	for _, p := range top.products {
		products = append(products, dto.TopProductResponse{
			ProductID:    p.ProductID,
			ProductName:  p.ProductName,
			QuantitySold: p.Quantity,
			Revenue:      p.Revenue.Round(2),
		})
	}

	return &dto.DashboardSummaryResponse{
		TodaySales:       today.totals.Sold.Round(2),
		TodayPurchases:   today.totals.Bought.Round(2),
		TodaySalesCount:  today.totals.SoldCount,
		MonthlySales:     month.totals.Sold.Round(2),
		MonthlyPurchases: month.totals.Bought.Round(2),
		MonthlyNet:       month.totals.Sold.Sub(month.totals.Bought).Round(2),
		TopProducts:      products,
		DateLabel:        now.Format("January 2006"),
	}, nil
}
