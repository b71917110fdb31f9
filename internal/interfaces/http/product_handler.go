package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/application/usecase"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos con existencias
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/list [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListInStock(c.Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// FindByBarcode godoc
// @Summary      Buscar producto por código de barras
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        barcode  query  string  false  "Barcode"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/findByBarcode [get]
func (h *ProductHandler) FindByBarcode(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	if barcode == "" {
		barcode = c.Query("barcode")
	}
	out, err := h.uc.FindByBarcode(c.Context(), GetUserID(c), barcode)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/addProduct [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	out, err := h.uc.AddProduct(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProductRequest  true  "Producto completo"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/update [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	out, err := h.uc.UpdateProduct(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateAll godoc
// @Summary      Ajustar precio de todos los productos
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PriceChangeRequest  true  "changes {price, type}"
// @Success      200   {object}  dto.PriceChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/updateAllProducts [put]
func (h *ProductHandler) UpdateAll(c *fiber.Ctx) error {
	return h.adjust(c, func(dto.PriceChangeRequest) (entity.ProductFilter, string, bool) {
		return entity.ProductFilter{}, "All products updated successfully", true
	})
}

// UpdateByCategory godoc
// @Summary      Ajustar precio por categoría
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PriceChangeRequest  true  "category + changes"
// @Success      200   {object}  dto.PriceChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/updateByCategory [put]
func (h *ProductHandler) UpdateByCategory(c *fiber.Ctx) error {
	return h.adjust(c, func(in dto.PriceChangeRequest) (entity.ProductFilter, string, bool) {
		return entity.ProductFilter{Category: in.Category},
			fmt.Sprintf("Products in category %s updated successfully", in.Category),
			in.Category != ""
	})
}

// UpdateBySource godoc
// @Summary      Ajustar precio por proveedor
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PriceChangeRequest  true  "source_id + changes"
// @Success      200   {object}  dto.PriceChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/updateBySource [put]
func (h *ProductHandler) UpdateBySource(c *fiber.Ctx) error {
	return h.adjust(c, func(in dto.PriceChangeRequest) (entity.ProductFilter, string, bool) {
		return entity.ProductFilter{SourceID: in.SourceID},
			fmt.Sprintf("Products from source %d updated successfully", in.SourceID),
			in.SourceID > 0
	})
}

// UpdateSelected godoc
// @Summary      Ajustar precio de productos seleccionados
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PriceChangeRequest  true  "product_ids + changes"
// @Success      200   {object}  dto.PriceChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/updateSelected [put]
func (h *ProductHandler) UpdateSelected(c *fiber.Ctx) error {
	return h.adjust(c, func(in dto.PriceChangeRequest) (entity.ProductFilter, string, bool) {
		return entity.ProductFilter{ProductIDs: in.ProductIDs},
			"Selected products updated successfully",
			len(in.ProductIDs) > 0
	})
}

// adjust parses the body, lets scope pick the filter, and applies the change.
// scope reports false when the body lacks the field the route filters on.
func (h *ProductHandler) adjust(c *fiber.Ctx, scope func(dto.PriceChangeRequest) (entity.ProductFilter, string, bool)) error {
	var in dto.PriceChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	filter, msg, ok := scope(in)
	if !ok {
		return badRequest(c, "VALIDATION", "missing filter for this price change")
	}
	adj, err := usecase.ParsePriceChange(in)
	if err != nil {
		return err
	}
	n, err := h.uc.AdjustPrices(c.Context(), GetUserID(c), filter, adj)
	if err != nil {
		return err
	}
	return c.JSON(dto.PriceChangeResponse{Message: msg, Updated: n})
}

// Delete godoc
// @Summary      Eliminar productos (stock a cero)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteProductsRequest  true  "product_ids"
// @Success      200   {object}  dto.DeletedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/deleteProduct [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteProductsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	n, err := h.uc.DeleteProducts(c.Context(), GetUserID(c), in.ProductIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeletedResponse{Message: "Products deleted successfully", Deleted: n})
}

// Categories godoc
// @Summary      Listar categorías
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoriesResponse
// @Router       /api/products/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
