// Package inventory holds the pure rules of the sell and receive paths:
// request normalization, stock checks and total computation. Nothing here
// touches storage.
package inventory

import (
	"strings"

	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleRequestLine is one requested sale line as received from the client.
type SaleRequestLine struct {
	ProductID int64
	Quantity  decimal.Decimal
}

// SaleItem is a validated sale line.
type SaleItem struct {
	ProductID int64
	Quantity  int64
}

// PricedLine is a sale line with the unit price snapshotted from the current row.
type PricedLine struct {
	ProductID int64
	Name      string
	Quantity  int64
	Price     decimal.Decimal
	Subtotal  decimal.Decimal
}

// Quote is the result of pricing a sale against current stock.
type Quote struct {
	Lines []PricedLine
	Total decimal.Decimal
}

// ReceiptRequestLine is one incoming goods line as received from the client.
type ReceiptRequestLine struct {
	Barcode  string
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	SourceID int64
}

// ReceiptItem is a validated incoming goods line.
type ReceiptItem struct {
	Barcode  string
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int64
	SourceID int64
}

// ParseSale validates the shape of a sale request. It never looks at stock.
func ParseSale(lines []SaleRequestLine) ([]SaleItem, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	items := make([]SaleItem, 0, len(lines))
	for i, l := range lines {
		if l.ProductID <= 0 {
			return nil, &domain.LineError{Err: domain.ErrInvalidRequest, Index: i, Reason: "product_id is required"}
		}
		qty, ok := positiveInt(l.Quantity)
		if !ok {
			return nil, &domain.LineError{Err: domain.ErrInvalidQuantity, Index: i, ProductID: l.ProductID}
		}
		items = append(items, SaleItem{ProductID: l.ProductID, Quantity: qty})
	}
	return items, nil
}

// ParseReceipt validates every incoming line before any write happens.
// Prices are rounded to cents first, matching NUMERIC(12,2) storage, so the
// header total always equals the sum of the stored lines.
func ParseReceipt(lines []ReceiptRequestLine) ([]ReceiptItem, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	items := make([]ReceiptItem, 0, len(lines))
	for i, l := range lines {
		barcode := strings.TrimSpace(l.Barcode)
		name := strings.TrimSpace(l.Name)
		price := l.Price.Round(2)
		bad := func(reason string) error {
			return &domain.LineError{Err: domain.ErrInvalidProductData, Index: i, Barcode: barcode, Reason: reason}
		}
		switch {
		case barcode == "":
			return nil, bad("barcode is required")
		case name == "":
			return nil, bad("product_name is required")
		case l.SourceID <= 0:
			return nil, bad("source_id is required")
		case !price.IsPositive():
			return nil, bad("price must be at least 0.01")
		}
		qty, ok := positiveInt(l.Quantity)
		if !ok {
			return nil, bad("quantity must be a positive integer")
		}
		items = append(items, ReceiptItem{
			Barcode:  barcode,
			Name:     name,
			Category: strings.TrimSpace(l.Category),
			Price:    price,
			Quantity: qty,
			SourceID: l.SourceID,
		})
	}
	return items, nil
}

// ProductIDs returns the distinct product ids of a sale in request order.
func ProductIDs(items []SaleItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

// PriceSale checks each line against the current rows and computes the total.
// Repeated product ids are checked against their cumulative demand. The total
// is rounded once, to cents, after summing.
func PriceSale(items []SaleItem, levels []entity.StockLevel) (*Quote, error) {
	byID := make(map[int64]entity.StockLevel, len(levels))
	for _, l := range levels {
		byID[l.ProductID] = l
	}
	demand := make(map[int64]int64, len(items))
	q := &Quote{Lines: make([]PricedLine, 0, len(items)), Total: decimal.Zero}
	for i, it := range items {
		cur, ok := byID[it.ProductID]
		if !ok {
			return nil, &domain.LineError{Err: domain.ErrProductNotFound, Index: i, ProductID: it.ProductID}
		}
		demand[it.ProductID] += it.Quantity
		if demand[it.ProductID] > cur.Quantity {
			return nil, &domain.LineError{
				Err:       domain.ErrInsufficientStock,
				Index:     i,
				ProductID: it.ProductID,
				Requested: demand[it.ProductID],
				Available: cur.Quantity,
			}
		}
		sub := cur.Price.Mul(decimal.NewFromInt(it.Quantity))
		q.Lines = append(q.Lines, PricedLine{
			ProductID: it.ProductID,
			Name:      cur.Name,
			Quantity:  it.Quantity,
			Price:     cur.Price,
			Subtotal:  sub,
		})
		q.Total = q.Total.Add(sub)
	}
	q.Total = q.Total.Round(2)
	return q, nil
}

// ReceiptTotal sums price x quantity over the receipt and rounds once.
func ReceiptTotal(items []ReceiptItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total.Round(2)
}

func positiveInt(d decimal.Decimal) (int64, bool) {
	if !d.IsInteger() || !d.IsPositive() || !d.BigInt().IsInt64() {
		return 0, false
	}
	return d.IntPart(), true
}
