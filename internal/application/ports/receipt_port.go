package ports

import "github.com/jhoicas/shopdb-api/internal/domain/entity"

// Receipt is everything a printed receipt shows for one transaction.
type Receipt struct {
	ShopName    string
	Transaction *entity.Transaction
	Items       []*entity.TransactionItem
	SourceName  string
}

// ReceiptRenderer define el puerto de salida para documentos de transacción.
// The PDF adapter implements it; use cases only see this contract.
type ReceiptRenderer interface {
	Render(r Receipt) ([]byte, error)
}
