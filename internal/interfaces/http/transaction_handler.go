package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/application/usecase"
)

// TransactionHandler maneja las consultas del libro de transacciones.
type TransactionHandler struct {
	uc *usecase.TransactionUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// List godoc
// @Summary      Listar transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  false  "sold | bought"
// @Success      200   {object}  dto.TransactionListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transactions/list [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetUserID(c), c.Query("type"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Items godoc
// @Summary      Líneas de una transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        transaction_id  query  int  true  "Transaction id"
// @Success      200  {object}  dto.TransactionItemsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions/items [get]
func (h *TransactionHandler) Items(c *fiber.Ctx) error {
	id := c.QueryInt("transaction_id", 0)
	out, err := h.uc.Items(c.Context(), GetUserID(c), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar transacción manual
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "total_amount, type, source_id"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transactions/add [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	out, err := h.uc.AddManual(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar transacciones
// @Description  Deletes the transactions and their lines. Stock is not restored.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteTransactionsRequest  true  "transaction_ids"
// @Success      200   {object}  dto.DeletedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transactions/delete [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteTransactionsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	n, err := h.uc.Delete(c.Context(), GetUserID(c), in.TransactionIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeletedResponse{Message: "Transactions deleted successfully", Deleted: n})
}

// Receipt godoc
// @Summary      Recibo PDF
// @Tags         transactions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "Transaction id"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/receipt [get]
func (h *TransactionHandler) Receipt(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "VALIDATION", "id must be a positive integer")
	}
	pdf, err := h.uc.Receipt(c.Context(), GetUserID(c), int64(id))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="receipt-%d.pdf"`, id))
	return c.Send(pdf)
}
