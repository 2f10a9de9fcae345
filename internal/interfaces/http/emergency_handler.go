package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/usecase"
)

// EmergencyHandler tipos de desastre, eventos de emergencia y zonas afectadas.
type EmergencyHandler struct {
	types  *usecase.DisasterTypeUseCase
	events *usecase.EventUseCase
	zones  *usecase.ZoneUseCase
}

func NewEmergencyHandler(types *usecase.DisasterTypeUseCase, events *usecase.EventUseCase, zones *usecase.ZoneUseCase) *EmergencyHandler {
	return &EmergencyHandler{types: types, events: events, zones: zones}
}

// ListDisasterTypes godoc
// @Summary      Listar tipos de desastre
// @Tags         emergencias
// @Security     Bearer
// @Produce      json
// @Param        includeInactive  query  bool  false  "Incluir inactivos"
// @Success      200  {array}  dto.DisasterTypeResponse
// @Router       /api/tipos-desastre [get]
func (h *EmergencyHandler) ListDisasterTypes(c *fiber.Ctx) error {
	out, err := h.types.List(c.Context(), c.QueryBool("includeInactive", false))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetDisasterType godoc
// @Summary      Obtener tipo de desastre
// @Tags         emergencias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del tipo"
// @Success      200  {object}  dto.DisasterTypeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tipos-desastre/{id} [get]
func (h *EmergencyHandler) GetDisasterType(c *fiber.Ctx) error {
	out, err := h.types.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// CreateDisasterType godoc
// @Summary      Crear tipo de desastre
// @Tags         emergencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDisasterTypeRequest  true  "Datos del tipo"
// @Success      201   {object}  dto.DisasterTypeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tipos-desastre [post]
func (h *EmergencyHandler) CreateDisasterType(c *fiber.Ctx) error {
	var in dto.CreateDisasterTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.types.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out, "Tipo de desastre creado exitosamente")
}

// UpdateDisasterType godoc
// @Summary      Actualizar tipo de desastre
// @Tags         emergencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del tipo"
// @Param        body  body  dto.UpdateDisasterTypeRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.DisasterTypeResponse
// @Router       /api/tipos-desastre/{id} [put]
func (h *EmergencyHandler) UpdateDisasterType(c *fiber.Ctx) error {
	var in dto.UpdateDisasterTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.types.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return okMessage(c, out, "Tipo de desastre actualizado exitosamente")
}

// DeleteDisasterType godoc
// @Summary      Eliminar tipo de desastre sin eventos
// @Tags         emergencias
// @Security     Bearer
// @Param        id   path  string  true  "ID del tipo"
// @Success      200  {object}  dto.Envelope
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tipos-desastre/{id} [delete]
func (h *EmergencyHandler) DeleteDisasterType(c *fiber.Ctx) error {
	if err := h.types.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, nil, "Tipo de desastre eliminado exitosamente")
}

// ToggleDisasterType godoc
// @Summary      Activar/desactivar tipo de desastre
// @Tags         emergencias
// @Security     Bearer
// @Param        id   path  string  true  "ID del tipo"
// @Success      200  {object}  dto.ToggleActiveResponse
// @Router       /api/tipos-desastre/{id}/toggle-active [patch]
func (h *EmergencyHandler) ToggleDisasterType(c *fiber.Ctx) error {
	out, err := h.types.ToggleActive(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// ListEvents godoc
// @Summary      Listar eventos de emergencia
// @Description  Sin includeInactive solo devuelve eventos en estado activo.
// @Tags         emergencias
// @Security     Bearer
// @Produce      json
// @Param        includeInactive  query  bool  false  "Incluir cerrados y suspendidos"
// @Success      200  {array}  dto.EventResponse
// @Router       /api/eventos [get]
func (h *EmergencyHandler) ListEvents(c *fiber.Ctx) error {
	out, err := h.events.List(c.Context(), c.QueryBool("includeInactive", false))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetEvent godoc
// @Summary      Obtener evento de emergencia
// @Tags         emergencias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del evento"
// @Success      200  {object}  dto.EventResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/eventos/{id} [get]
func (h *EmergencyHandler) GetEvent(c *fiber.Ctx) error {
	out, err := h.events.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// CreateEvent godoc
// @Summary      Crear evento de emergencia
// @Tags         emergencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEventRequest  true  "Datos del evento"
// @Success      201   {object}  dto.EventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/eventos [post]
func (h *EmergencyHandler) CreateEvent(c *fiber.Ctx) error {
	var in dto.CreateEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.events.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out, "Evento de emergencia creado exitosamente")
}

// UpdateEvent godoc
// @Summary      Actualizar evento de emergencia
// @Tags         emergencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del evento"
// @Param        body  body  dto.UpdateEventRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.EventResponse
// @Router       /api/eventos/{id} [put]
func (h *EmergencyHandler) UpdateEvent(c *fiber.Ctx) error {
	var in dto.UpdateEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.events.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return okMessage(c, out, "Evento de emergencia actualizado exitosamente")
}

// DeleteEvent godoc
// @Summary      Eliminar evento sin zonas
// @Tags         emergencias
// @Security     Bearer
// @Param        id   path  string  true  "ID del evento"
// @Success      200  {object}  dto.Envelope
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/eventos/{id} [delete]
func (h *EmergencyHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.events.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, nil, "Evento de emergencia eliminado exitosamente")
}

// CloseEvent godoc
// @Summary      Cerrar evento de emergencia
// @Tags         emergencias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del evento"
// @Success      200  {object}  dto.EventResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/eventos/{id}/cerrar [patch]
func (h *EmergencyHandler) CloseEvent(c *fiber.Ctx) error {
	out, err := h.events.Close(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return okMessage(c, out, "Evento cerrado exitosamente")
}

// ListZones godoc
// @Summary      Listar zonas afectadas
// @Tags         emergencias
// @Security     Bearer
// @Produce      json
// @Param        eventoId  query  string  false  "Filtrar por evento"
// @Success      200  {array}  dto.ZoneResponse
// @Router       /api/zonas [get]
func (h *EmergencyHandler) ListZones(c *fiber.Ctx) error {
	var in dto.ZoneFilter
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	out, err := h.zones.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// GetZone godoc
// @Summary      Obtener zona afectada
// @Tags         emergencias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la zona"
// @Success      200  {object}  dto.ZoneResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/zonas/{id} [get]
func (h *EmergencyHandler) GetZone(c *fiber.Ctx) error {
	out, err := h.zones.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// CreateZone godoc
// @Summary      Crear zona afectada
// @Tags         emergencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateZoneRequest  true  "Datos de la zona"
// @Success      201   {object}  dto.ZoneResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/zonas [post]
func (h *EmergencyHandler) CreateZone(c *fiber.Ctx) error {
	var in dto.CreateZoneRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.zones.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out, "Zona afectada creada exitosamente")
}

// UpdateZone godoc
// @Summary      Actualizar zona afectada
// @Tags         emergencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la zona"
// @Param        body  body  dto.UpdateZoneRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ZoneResponse
// @Router       /api/zonas/{id} [put]
func (h *EmergencyHandler) UpdateZone(c *fiber.Ctx) error {
	var in dto.UpdateZoneRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.zones.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return okMessage(c, out, "Zona afectada actualizada exitosamente")
}

// DeleteZone godoc
// @Summary      Eliminar zona afectada
// @Tags         emergencias
// @Security     Bearer
// @Param        id   path  string  true  "ID de la zona"
// @Success      200  {object}  dto.Envelope
// @Router       /api/zonas/{id} [delete]
func (h *EmergencyHandler) DeleteZone(c *fiber.Ctx) error {
	if err := h.zones.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, nil, "Zona afectada eliminada exitosamente")
}
