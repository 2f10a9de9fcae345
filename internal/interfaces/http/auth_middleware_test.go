package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/access"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	apphttp "github.com/jhoicas/ayuda-humanitaria-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ayuda-humanitaria-api/pkg/jwt"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmail     = "bodega@ayuda.local"
	testIssuer    = "ayuda-humanitaria-test"
	testExpMin    = 60
)

// stubAuthorizer concede solo los códigos de granted y registra la última identidad recibida.
type stubAuthorizer struct {
	granted map[string]bool
	last    access.Identity
}

func (s *stubAuthorizer) Authorize(_ context.Context, id access.Identity, required ...string) error {
	s.last = id
	for _, code := range required {
		if s.granted[code] {
			return nil
		}
	}
	return domain.NewError(domain.ErrForbidden, "No tiene permisos para realizar esta acción")
}

func (s *stubAuthorizer) CheckPermission(ctx context.Context, id access.Identity, module, action string) error {
	return s.Authorize(ctx, id, module+":"+action)
}

// ActiveRoles devuelve los roles del token, como si el store coincidiera con ellos.
func (s *stubAuthorizer) ActiveRoles(_ context.Context, id access.Identity) ([]string, error) {
	s.last = id
	return id.Roles, nil
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - el middleware de autorización indicado
//   - un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		guard,
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "user_id": apphttp.GetUserID(c)})
		},
	)
	return app
}

// tokenWithRoles genera un JWT con los roles indicados.
func tokenWithRoles(t *testing.T, roles ...string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, roles, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole(&stubAuthorizer{}, "BODEGUERO"))
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole(&stubAuthorizer{}, "BODEGUERO"))
	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, []string{"ADMIN"}, testIssuer, -1)
	require.NoError(t, err)

	app := buildTestApp(apphttp.RequireRole(&stubAuthorizer{}, "ADMIN"))
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, resp))
}

func TestAuthMiddleware_RefreshTokenNoSirveComoAccess(t *testing.T) {
	tok, _, err := pkgjwt.GenerateRefresh(testJWTSecret, testUserID, "jti-1", testIssuer, 1)
	require.NoError(t, err)

	app := buildTestApp(apphttp.RequireRole(&stubAuthorizer{}, "ADMIN"))
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		id := apphttp.GetIdentity(c)
		return c.JSON(fiber.Map{"user_id": id.UserID, "email": id.Email, "roles": id.Roles})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenWithRoles(t, "BODEGUERO", "DIGITADOR"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		UserID string   `json:"user_id"`
		Email  string   `json:"email"`
		Roles  []string `json:"roles"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, testEmail, body.Email)
	assert.Equal(t, []string{"BODEGUERO", "DIGITADOR"}, body.Roles)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole / RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		roles   []string
		status  int
	}{
		{"rol permitido", []string{"BODEGUERO"}, []string{"BODEGUERO"}, http.StatusOK},
		{"uno de varios", []string{"COORDINADOR", "BODEGUERO"}, []string{"BODEGUERO"}, http.StatusOK},
		{"ADMIN siempre pasa", []string{"COORDINADOR"}, []string{"ADMIN"}, http.StatusOK},
		{"rol distinto", []string{"COORDINADOR"}, []string{"CONSULTA"}, http.StatusForbidden},
		{"sin roles", []string{"COORDINADOR"}, nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := buildTestApp(apphttp.RequireRole(&stubAuthorizer{}, tc.allowed...))
			resp := doRequest(t, app, tokenWithRoles(t, tc.roles...))
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequirePermission_ConcedeConCualquieraDeLosCodigos(t *testing.T) {
	az := &stubAuthorizer{granted: map[string]bool{"inventario:leer": true}}
	app := buildTestApp(apphttp.RequirePermission(az, "inventario:crear", "inventario:leer"))

	resp := doRequest(t, app, tokenWithRoles(t, "CONSULTA"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, az.last.UserID, "la identidad del token llega al resolvedor")
	assert.Equal(t, []string{"CONSULTA"}, az.last.Roles)
}

func TestRequirePermission_Deniega403(t *testing.T) {
	az := &stubAuthorizer{granted: map[string]bool{"inventario:leer": true}}
	app := buildTestApp(apphttp.RequirePermission(az, "inventario:crear"))

	resp := doRequest(t, app, tokenWithRoles(t, "CONSULTA"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
}

func TestRequireExactPermission(t *testing.T) {
	az := &stubAuthorizer{granted: map[string]bool{"inventario:eliminar": true}}

	resp := doRequest(t, buildTestApp(apphttp.RequireExactPermission(az, "inventario", "eliminar")), tokenWithRoles(t, "COORDINADOR"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2 := doRequest(t, buildTestApp(apphttp.RequireExactPermission(az, "seguridad", "eliminar")), tokenWithRoles(t, "COORDINADOR"))
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}

func TestRequirePermission_UsuarioInactivoEs401(t *testing.T) {
	az := &inactiveAuthorizer{}
	app := buildTestApp(apphttp.RequirePermission(az, "inventario:leer"))

	resp := doRequest(t, app, tokenWithRoles(t, "CONSULTA"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

type inactiveAuthorizer struct{}

func (inactiveAuthorizer) Authorize(context.Context, access.Identity, ...string) error {
	return domain.NewError(domain.ErrUnauthorized, "Usuario inactivo")
}

func (inactiveAuthorizer) CheckPermission(context.Context, access.Identity, string, string) error {
	return domain.NewError(domain.ErrUnauthorized, "Usuario inactivo")
}

func (inactiveAuthorizer) ActiveRoles(context.Context, access.Identity) ([]string, error) {
	return nil, domain.NewError(domain.ErrUnauthorized, "Usuario inactivo")
}

func TestRequireRole_UsuarioInactivoConClaimADMINEs401(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole(inactiveAuthorizer{}, "ADMIN"))

	resp := doRequest(t, app, tokenWithRoles(t, "ADMIN"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// ErrorHandler
// ──────────────────────────────────────────────────────────────────────────────

func TestErrorHandler_NoFiltraErroresInternos(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused to 10.0.0.5")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INTERNAL")
	assert.NotContains(t, string(body), "10.0.0.5")
}

func TestErrorHandler_ConservaStatusDeFiber(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/no-existe", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
