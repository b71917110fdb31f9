package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	inv "github.com/jhoicas/shopdb-api/internal/domain/inventory"
)

// InventoryHandler expone el motor de inventario: venta, cotización y entrada de mercancía.
type InventoryHandler struct {
	sell    *inventory.SellUseCase
	receive *inventory.ReceiveUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(sell *inventory.SellUseCase, receive *inventory.ReceiveUseCase) *InventoryHandler {
	return &InventoryHandler{sell: sell, receive: receive}
}

// Sell godoc
// @Summary      Registrar venta
// @Description  Validates every line against current stock, then records the sale and decrements stock atomically.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string           false  "Retry key"
// @Param        body             body    dto.SellRequest  true   "Sale lines"
// @Success      200  {object}  dto.SellResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/sell [post]
func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.sell.Sell(c.Context(), GetUserID(c), saleLines(in))
	if err != nil {
		return err
	}
	return c.JSON(dto.SellResponse{
		Message:       "Sale completed successfully",
		TransactionID: res.TransactionID,
		TotalAmount:   res.Total,
	})
}

// ValidateSale godoc
// @Summary      Cotizar venta
// @Description  Prices a sale against current stock without writing anything.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SellRequest  true  "Sale lines"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/sell/validate [post]
func (h *InventoryHandler) ValidateSale(c *fiber.Ctx) error {
	var in dto.SellRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	q, err := h.sell.ValidateSale(c.Context(), GetUserID(c), saleLines(in))
	if err != nil {
		return err
	}
	out := dto.QuoteResponse{TotalAmount: q.Total, Items: make([]dto.QuoteLineResponse, 0, len(q.Lines))}
	for _, l := range q.Lines {
		out.Items = append(out.Items, dto.QuoteLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Subtotal:    l.Subtotal,
		})
	}
	return c.JSON(out)
}

// AddOrIncrease godoc
// @Summary      Entrada de mercancía
// @Description  Restocks existing barcodes and creates unknown ones, recording one bought transaction. All or nothing.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                    false  "Retry key"
// @Param        body             body    dto.AddOrIncreaseRequest  true   "Batch {items:[...]} or a single item"
// @Success      200  {object}  dto.AddOrIncreaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/addOrIncrease [post]
func (h *InventoryHandler) AddOrIncrease(c *fiber.Ctx) error {
	var in dto.AddOrIncreaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	items := in.Lines()
	lines := make([]inv.ReceiptRequestLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, inv.ReceiptRequestLine{
			Barcode:  it.Barcode,
			Name:     it.ProductName,
			Category: it.Category,
			Price:    it.Price,
			Quantity: it.Quantity,
			SourceID: it.SourceID,
		})
	}
	res, err := h.receive.AddOrIncrease(c.Context(), GetUserID(c), lines)
	if err != nil {
		return err
	}
	return c.JSON(dto.AddOrIncreaseResponse{
		Message:       "Products added or updated successfully",
		TransactionID: res.TransactionID,
		TotalAmount:   res.Total,
		ItemsCount:    res.ItemsCount,
		ProductIDs:    res.ProductIDs,
	})
}

func saleLines(in dto.SellRequest) []inv.SaleRequestLine {
	lines := make([]inv.SaleRequestLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, inv.SaleRequestLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
