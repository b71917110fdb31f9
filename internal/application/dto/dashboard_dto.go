package dto

import "github.com/shopspring/decimal"

// DashboardSummaryResponse respuesta de GET /api/dashboard/summary.
// Totales del día y del mes en curso, más el Top-5 de productos vendidos del mes.
type DashboardSummaryResponse struct {
	TodaySales      decimal.Decimal `json:"today_sales"`
	TodayPurchases  decimal.Decimal `json:"today_purchases"`
	TodaySalesCount int64           `json:"today_sales_count"`

	MonthlySales     decimal.Decimal `json:"monthly_sales"`
	MonthlyPurchases decimal.Decimal `json:"monthly_purchases"`
	MonthlyNet       decimal.Decimal `json:"monthly_net"` // sales - purchases

	TopProducts []TopProductResponse `json:"top_products"`
	DateLabel   string               `json:"date_label"` // ej: "March 2025"
}

// TopProductResponse resumen de un producto para el widget del dashboard.
type TopProductResponse struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}
