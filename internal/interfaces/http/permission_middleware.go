package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/access"
	domainaccess "github.com/jhoicas/ayuda-humanitaria-api/internal/domain/access"
)

// authorizer contrato mínimo del resolvedor de acceso que necesitan los middlewares.
// Lo implementa *access.Resolver.
type authorizer interface {
	Authorize(ctx context.Context, id access.Identity, required ...string) error
	CheckPermission(ctx context.Context, id access.Identity, module, action string) error
	ActiveRoles(ctx context.Context, id access.Identity) ([]string, error)
}

// RequirePermission permite el paso si la identidad tiene al menos uno de los códigos "modulo:accion".
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 si no hay identidad en el contexto o el usuario ya no está activo.
//   - 403 si ninguno de los permisos requeridos está presente.
func RequirePermission(az authorizer, codes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id.UserID == "" {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Usuario no autenticado")
		}
		if err := az.Authorize(c.Context(), id, codes...); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// RequireExactPermission exige exactamente el par (module, action).
func RequireExactPermission(az authorizer, module, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id.UserID == "" {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Usuario no autenticado")
		}
		if err := az.CheckPermission(c.Context(), id, module, action); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados. ADMIN siempre pasa.
// Los roles se leen del resolvedor, así un usuario desactivado o sin el rol ya no pasa aunque su token lo diga.
func RequireRole(az authorizer, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id.UserID == "" {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Usuario no autenticado")
		}
		have, err := az.ActiveRoles(c.Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		if domainaccess.IsAdmin(have) {
			return c.Next()
		}
		for _, r := range have {
			for _, want := range roles {
				if r == want {
					return c.Next()
				}
			}
		}
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "Rol no autorizado para esta operación")
	}
}
