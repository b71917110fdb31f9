package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog row owned by a single user. Quantity never goes below zero
// once a write commits; Barcode is unique per owner.
type Product struct {
	ID           int64
	OwnerID      int64
	Barcode      string
	Name         string
	Price        decimal.Decimal
	Quantity     int64
	Category     string
	SourceID     int64
	SourceName   string // joined on reads, never written
	DateAccepted time.Time
}

// StockLevel is the minimal projection the sell path reads and locks.
type StockLevel struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int64
}

// ProductFilter selects the products a bulk price change applies to.
// A zero filter matches every product of the owner.
type ProductFilter struct {
	Category   string
	SourceID   int64
	ProductIDs []int64
}

// IsZero reports whether the filter matches the whole catalog.
func (f ProductFilter) IsZero() bool {
	return f.Category == "" && f.SourceID == 0 && len(f.ProductIDs) == 0
}
