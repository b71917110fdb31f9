package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records a ledger entry that moves no stock.
type CreateTransactionRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	Type        string          `json:"type" validate:"required,oneof=sold bought"`
	SourceID    *int64          `json:"source_id" validate:"omitempty,gt=0"`
}

// TransactionResponse salida de una transacción.
type TransactionResponse struct {
	TransactionID   int64           `json:"transaction_id"`
	SourceID        *int64          `json:"source_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Type            string          `json:"type"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// TransactionListResponse lista de transacciones.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// TransactionItemResponse one ledger line.
type TransactionItemResponse struct {
	TransactionItemID int64           `json:"transaction_item_id"`
	TransactionID     int64           `json:"transaction_id"`
	ProductID         int64           `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          int64           `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
}

// TransactionItemsResponse lines of one transaction.
type TransactionItemsResponse struct {
	Items []TransactionItemResponse `json:"items"`
}

// DeleteTransactionsRequest body for DELETE /api/transactions/delete.
type DeleteTransactionsRequest struct {
	TransactionIDs []int64 `json:"transaction_ids" validate:"required,min=1,dive,gt=0"`
}
