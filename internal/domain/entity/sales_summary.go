package entity

import "github.com/shopspring/decimal"

// LedgerTotals sums the ledger over a period, split by transaction type.
type LedgerTotals struct {
	Sold        decimal.Decimal
	Bought      decimal.Decimal
	SoldCount   int64
	BoughtCount int64
}

// ProductSales is one product's sold quantity and revenue over a period.
// Revenue uses the price snapshotted on each line.
type ProductSales struct {
	ProductID   int64
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
}
