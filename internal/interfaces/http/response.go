package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/logger"
)

// errorMapping status y código por tipo de error de dominio; el orden importa (Duplicate antes que InvalidInput).
var errorMapping = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusBadRequest, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidRevert, fiber.StatusBadRequest, "INVALID_REVERT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// respondError escribe el error de dominio; lo no reconocido sube al ErrorHandler (500, se registra).
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.kind) {
			return fail(c, m.status, m.code, domain.Message(err))
		}
	}
	return err
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Code: code, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, "INVALID_BODY", message)
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.Envelope{Success: true, Data: data})
}

func okPage(c *fiber.Ctx, data any, p *dto.Pagination) error {
	return c.JSON(dto.Envelope{Success: true, Data: data, Pagination: p})
}

func created(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Success: true, Data: data, Message: message})
}

func okMessage(c *fiber.Ctx, data any, message string) error {
	return c.JSON(dto.Envelope{Success: true, Data: data, Message: message})
}

// ErrorHandler manejador global de Fiber: errores de Fiber conservan su status, el resto es 500 sin detalles.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fail(c, fe.Code, "HTTP_ERROR", fe.Message)
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "Error interno del servidor")
	}
}
