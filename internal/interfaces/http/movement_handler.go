package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/usecase"
)

// MovementHandler expone el libro de movimientos.
type MovementHandler struct {
	uc *usecase.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        tipo         query  string  false  "entrada | salida"
// @Param        productoId   query  string  false  "Producto"
// @Param        bodegaId     query  string  false  "Bodega"
// @Param        fechaInicio  query  string  false  "YYYY-MM-DD"
// @Param        fechaFin     query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Statistics godoc
// @Summary      Totales de entradas y salidas por producto y por bodega
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        fechaInicio  query  string  false  "YYYY-MM-DD"
// @Param        fechaFin     query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.StatisticsResponse
// @Router       /api/movimientos/estadisticas [get]
func (h *MovementHandler) Statistics(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	out, err := h.uc.Statistics(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Registrar movimiento
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "tipo, productoId, bodegaId, cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out, "Movimiento registrado exitosamente")
}

// Delete godoc
// @Summary      Eliminar movimiento revirtiendo su efecto en el stock
// @Tags         movimientos
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.RevertMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return okMessage(c, out, "Movimiento eliminado y stock revertido")
}
