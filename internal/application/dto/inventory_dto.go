package dto

import "github.com/shopspring/decimal"

// SellItemRequest one sale line.
type SellItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SellRequest body for POST /api/products/sell and /sell/validate.
type SellRequest struct {
	Items []SellItemRequest `json:"items"`
}

// SellResponse is a committed sale.
type SellResponse struct {
	Message       string          `json:"message"`
	TransactionID int64           `json:"transaction_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// QuoteLineResponse is one priced line of a sale preview.
type QuoteLineResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// QuoteResponse is a priced sale that was not committed.
type QuoteResponse struct {
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []QuoteLineResponse `json:"items"`
}

// ReceiveItemRequest one incoming goods line.
type ReceiveItemRequest struct {
	Barcode     string          `json:"barcode"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	SourceID    int64           `json:"source_id"`
}

// AddOrIncreaseRequest accepts either {"items": [...]} or a single item body.
type AddOrIncreaseRequest struct {
	Items []ReceiveItemRequest `json:"items"`
	ReceiveItemRequest
}

// Lines returns the batch, falling back to the single inline item.
func (r AddOrIncreaseRequest) Lines() []ReceiveItemRequest {
	if len(r.Items) > 0 {
		return r.Items
	}
	if r.ReceiveItemRequest == (ReceiveItemRequest{}) {
		return nil
	}
	return []ReceiveItemRequest{r.ReceiveItemRequest}
}

// AddOrIncreaseResponse is a committed incoming goods batch.
type AddOrIncreaseResponse struct {
	Message       string          `json:"message"`
	TransactionID int64           `json:"transaction_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemsCount    int             `json:"items_count"`
	ProductIDs    []int64         `json:"product_ids"`
}
