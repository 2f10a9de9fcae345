package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/access"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/jwt"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRoles  = "roles"
)

// AuthMiddleware valida el Bearer Token JWT y deja userId, email y roles en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fail(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Token no proporcionado")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return fail(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Token no proporcionado")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			if jwt.IsExpired(err) {
				return fail(c, fiber.StatusUnauthorized, "TOKEN_EXPIRED", "Token expirado")
			}
			return fail(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Token inválido")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRoles, claims.Roles)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRoles códigos de rol del token.
func GetRoles(c *fiber.Ctx) []string {
	r, _ := c.Locals(LocalRoles).([]string)
	return r
}

// GetIdentity identidad completa para el resolvedor de acceso.
func GetIdentity(c *fiber.Ctx) access.Identity {
	email, _ := c.Locals(LocalEmail).(string)
	return access.Identity{UserID: GetUserID(c), Email: email, Roles: GetRoles(c)}
}
