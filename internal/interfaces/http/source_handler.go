package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/application/usecase"
)

// SourceHandler maneja las peticiones HTTP de proveedores.
type SourceHandler struct {
	uc *usecase.SourceUseCase
}

// NewSourceHandler construye el handler.
func NewSourceHandler(uc *usecase.SourceUseCase) *SourceHandler {
	return &SourceHandler{uc: uc}
}

// List godoc
// @Summary      Listar proveedores
// @Tags         sources
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SourceListResponse
// @Router       /api/sources/list [get]
func (h *SourceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         sources
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSourceRequest  true  "name, phone, address"
// @Success      201   {object}  dto.SourceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sources/addSource [post]
func (h *SourceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSourceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	out, err := h.uc.Add(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar proveedor
// @Tags         sources
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSourceRequest  true  "source_id + fields"
// @Success      200   {object}  dto.SourceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sources/updateSource [put]
func (h *SourceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSourceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar proveedores
// @Tags         sources
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteSourcesRequest  true  "source_ids"
// @Success      200   {object}  dto.DeletedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sources/deleteSource [delete]
func (h *SourceHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteSourcesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	n, err := h.uc.Delete(c.Context(), GetUserID(c), in.SourceIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeletedResponse{Message: "Sources deleted successfully", Deleted: n})
}
