package dto

import "github.com/shopspring/decimal"

// DateLayout is the wire format of acceptance dates.
const DateLayout = "2006-01-02"

// Price change types accepted in PriceChange.Type.
const (
	PriceChangeNumber     = "number"
	PriceChangePercentage = "percentage"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Barcode     string          `json:"barcode" validate:"required,max=100"`
	ProductName string          `json:"product_name" validate:"required,max=200"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity" validate:"gte=0"`
	Category    string          `json:"category" validate:"max=100"`
	SourceID    int64           `json:"source_id" validate:"required,gt=0"`
}

// UpdateProductRequest overwrites every editable column of one product.
type UpdateProductRequest struct {
	ProductID    int64           `json:"product_id" validate:"required,gt=0"`
	Barcode      string          `json:"barcode" validate:"required,max=100"`
	ProductName  string          `json:"product_name" validate:"required,max=200"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int64           `json:"quantity" validate:"gte=0"`
	Category     string          `json:"category" validate:"max=100"`
	SourceID     int64           `json:"source_id" validate:"required,gt=0"`
	DateAccepted string          `json:"date_accepted" validate:"omitempty,datetime=2006-01-02"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ProductID    int64           `json:"product_id"`
	Barcode      string          `json:"barcode"`
	ProductName  string          `json:"product_name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int64           `json:"quantity"`
	Category     string          `json:"category,omitempty"`
	SourceID     int64           `json:"source_id"`
	SourceName   string          `json:"source_name,omitempty"`
	DateAccepted string          `json:"date_accepted"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// CategoriesResponse lists the distinct categories in use.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// PriceChange is the amount and kind of a bulk price change.
type PriceChange struct {
	Price decimal.Decimal `json:"price"`
	Type  string          `json:"type" validate:"omitempty,oneof=number percentage"`
}

// PriceChangeRequest body for the bulk price endpoints. PriceIncrease is the
// older flat form and is read as an absolute change when Changes is empty.
type PriceChangeRequest struct {
	Changes       *PriceChange     `json:"changes"`
	PriceIncrease *decimal.Decimal `json:"priceIncrease"`
	Category      string           `json:"category"`
	SourceID      int64            `json:"source_id"`
	ProductIDs    []int64          `json:"product_ids" validate:"omitempty,dive,gt=0"`
}

// PriceChangeResponse reports how many products were repriced.
type PriceChangeResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

// DeleteProductsRequest soft-deletes products by zeroing their stock.
type DeleteProductsRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,min=1,dive,gt=0"`
}
