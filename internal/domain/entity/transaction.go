package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TransactionSold   = "sold"   // sale, stock leaves
	TransactionBought = "bought" // purchase, stock enters
)

// Transaction is a committed ledger header. It is never mutated after commit;
// the only way it leaves the ledger is an explicit delete.
type Transaction struct {
	ID       int64
	OwnerID  int64
	SourceID *int64
	Total    decimal.Decimal
	Type     string
	Date     time.Time
}

// TransactionItem is one line of a transaction. Price is the unit price
// snapshotted at commit time.
type TransactionItem struct {
	ID            int64
	TransactionID int64
	ProductID     int64
	OwnerID       int64
	Quantity      int64
	Price         decimal.Decimal
	ProductName   string // joined on reads
}

// ValidTransactionType reports whether t is one of the known ledger types.
func ValidTransactionType(t string) bool {
	return t == TransactionSold || t == TransactionBought
}
