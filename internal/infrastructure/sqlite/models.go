package sqlite

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
)

type productModel struct {
	ID           int64           `gorm:"column:product_id;primaryKey;autoIncrement"`
	OwnerID      int64           `gorm:"column:user_id"`
	Barcode      string          `gorm:"column:barcode"`
	Name         string          `gorm:"column:product_name"`
	Price        decimal.Decimal `gorm:"column:price"`
	Quantity     int64           `gorm:"column:quantity"`
	Category     string          `gorm:"column:category"`
	SourceID     int64           `gorm:"column:source_id"`
	DateAccepted time.Time       `gorm:"column:date_accepted"`
	SourceName   string          `gorm:"column:source_name;->"`
}

func (productModel) TableName() string { return "products" }

func (m *productModel) toEntity() *entity.Product {
	return &entity.Product{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Barcode:      m.Barcode,
		Name:         m.Name,
		Price:        m.Price,
		Quantity:     m.Quantity,
		Category:     m.Category,
		SourceID:     m.SourceID,
		SourceName:   m.SourceName,
		DateAccepted: m.DateAccepted,
	}
}

func productFromEntity(p *entity.Product) *productModel {
	return &productModel{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Price:        p.Price,
		Quantity:     p.Quantity,
		Category:     p.Category,
		SourceID:     p.SourceID,
		DateAccepted: p.DateAccepted.UTC(),
	}
}

type stockRow struct {
	ID       int64           `gorm:"column:product_id"`
	Name     string          `gorm:"column:product_name"`
	Price    decimal.Decimal `gorm:"column:price"`
	Quantity int64           `gorm:"column:quantity"`
}

func (r stockRow) toEntity() entity.StockLevel {
	return entity.StockLevel{ProductID: r.ID, Name: r.Name, Price: r.Price, Quantity: r.Quantity}
}

type sourceModel struct {
	ID      int64  `gorm:"column:source_id;primaryKey;autoIncrement"`
	OwnerID int64  `gorm:"column:user_id"`
	Name    string `gorm:"column:name"`
	Phone   string `gorm:"column:phone"`
	Address string `gorm:"column:address"`
}

func (sourceModel) TableName() string { return "sources" }

func (m *sourceModel) toEntity() *entity.Source {
	return &entity.Source{ID: m.ID, OwnerID: m.OwnerID, Name: m.Name, Phone: m.Phone, Address: m.Address}
}

type transactionModel struct {
	ID       int64           `gorm:"column:transaction_id;primaryKey;autoIncrement"`
	OwnerID  int64           `gorm:"column:user_id"`
	SourceID *int64          `gorm:"column:source_id"`
	Total    decimal.Decimal `gorm:"column:total_amount"`
	Type     string          `gorm:"column:type"`
	Date     time.Time       `gorm:"column:transaction_date"`
}

func (transactionModel) TableName() string { return "transactions" }

func (m *transactionModel) toEntity() *entity.Transaction {
	return &entity.Transaction{ID: m.ID, OwnerID: m.OwnerID, SourceID: m.SourceID, Total: m.Total, Type: m.Type, Date: m.Date}
}

type transactionItemModel struct {
	ID            int64           `gorm:"column:transaction_item_id;primaryKey;autoIncrement"`
	TransactionID int64           `gorm:"column:transaction_id"`
	ProductID     int64           `gorm:"column:product_id"`
	OwnerID       int64           `gorm:"column:user_id"`
	Quantity      int64           `gorm:"column:quantity"`
	Price         decimal.Decimal `gorm:"column:price"`
	ProductName   string          `gorm:"column:product_name;->"`
}

func (transactionItemModel) TableName() string { return "transaction_items" }

func (m *transactionItemModel) toEntity() *entity.TransactionItem {
	return &entity.TransactionItem{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		OwnerID:       m.OwnerID,
		Quantity:      m.Quantity,
		Price:         m.Price,
		ProductName:   m.ProductName,
	}
}

type userModel struct {
	ID           int64     `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:username"`
	PasswordHash string    `gorm:"column:password"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }
