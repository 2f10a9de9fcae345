package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/usecase"
)

// CatalogHandler configuración de categorías y unidades de medida.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Categories godoc
// @Summary      Listar categorías
// @Tags         configuracion
// @Security     Bearer
// @Produce      json
// @Param        includeInactive  query  bool  false  "Incluir inactivas"
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categorias [get]
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.Context(), c.QueryBool("includeInactive", false))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetCategory godoc
// @Summary      Obtener categoría por ID
// @Tags         configuracion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [get]
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	out, err := h.uc.GetCategory(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         configuracion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categorias [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.CreateCategory(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out, "Categoría creada exitosamente")
}

// UpdateCategory godoc
// @Summary      Actualizar categoría
// @Tags         configuracion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/categorias/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.UpdateCategory(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return okMessage(c, out, "Categoría actualizada exitosamente")
}

// DeleteCategory godoc
// @Summary      Eliminar categoría sin productos
// @Tags         configuracion
// @Security     Bearer
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.Envelope
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.uc.DeleteCategory(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, nil, "Categoría eliminada exitosamente")
}

// ToggleCategory godoc
// @Summary      Activar/desactivar categoría
// @Tags         configuracion
// @Security     Bearer
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.ToggleActiveResponse
// @Router       /api/categorias/{id}/toggle-active [patch]
func (h *CatalogHandler) ToggleCategory(c *fiber.Ctx) error {
	out, err := h.uc.ToggleCategory(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Units godoc
// @Summary      Listar unidades de medida
// @Tags         configuracion
// @Security     Bearer
// @Produce      json
// @Param        includeInactive  query  bool  false  "Incluir inactivas"
// @Success      200  {array}  dto.UnitResponse
// @Router       /api/unidades [get]
func (h *CatalogHandler) Units(c *fiber.Ctx) error {
	out, err := h.uc.Units(c.Context(), c.QueryBool("includeInactive", false))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetUnit godoc
// @Summary      Obtener unidad de medida por ID
// @Tags         configuracion
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/unidades/{id} [get]
func (h *CatalogHandler) GetUnit(c *fiber.Ctx) error {
	out, err := h.uc.GetUnit(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// CreateUnit godoc
// @Summary      Crear unidad de medida
// @Tags         configuracion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "Datos de la unidad"
// @Success      201   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/unidades [post]
func (h *CatalogHandler) CreateUnit(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.CreateUnit(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out, "Unidad de medida creada exitosamente")
}

// UpdateUnit godoc
// @Summary      Actualizar unidad de medida
// @Tags         configuracion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la unidad"
// @Param        body  body  dto.UpdateUnitRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.UnitResponse
// @Router       /api/unidades/{id} [put]
func (h *CatalogHandler) UpdateUnit(c *fiber.Ctx) error {
	var in dto.UpdateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.UpdateUnit(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return okMessage(c, out, "Unidad de medida actualizada exitosamente")
}

// DeleteUnit godoc
// @Summary      Eliminar unidad de medida sin productos
// @Tags         configuracion
// @Security     Bearer
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.Envelope
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/unidades/{id} [delete]
func (h *CatalogHandler) DeleteUnit(c *fiber.Ctx) error {
	if err := h.uc.DeleteUnit(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, nil, "Unidad de medida eliminada exitosamente")
}

// ToggleUnit godoc
// @Summary      Activar/desactivar unidad de medida
// @Tags         configuracion
// @Security     Bearer
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.ToggleActiveResponse
// @Router       /api/unidades/{id}/toggle-active [patch]
func (h *CatalogHandler) ToggleUnit(c *fiber.Ctx) error {
	out, err := h.uc.ToggleUnit(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}
