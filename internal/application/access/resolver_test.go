package access_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/access"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/testutil/memstore"
)

func newStore() *memstore.Store {
	s := memstore.New()
	s.AddPermission("p-inv-leer", "inventario", "leer")
	s.AddPermission("p-inv-crear", "inventario", "crear")
	s.AddPermission("p-ent-crear", "entregas", "crear")
	s.AddRole("r-consulta", "CONSULTA", "p-inv-leer")
	s.AddRole("r-digitador", "DIGITADOR", "p-ent-crear", "p-inv-leer")
	s.AddRole("r-admin", "ADMIN")
	s.AddUser("u-consulta", "consulta@ayuda.org", "", true, "r-consulta")
	s.AddUser("u-multi", "multi@ayuda.org", "", true, "r-consulta", "r-digitador")
	s.AddUser("u-admin", "admin@ayuda.org", "", true, "r-admin")
	s.AddUser("u-inactivo", "off@ayuda.org", "", false, "r-digitador")
	s.AddUser("u-admin-baja", "exadmin@ayuda.org", "", false, "r-admin")
	return s
}

func newResolver(s *memstore.Store, ttl time.Duration) *access.Resolver {
	return access.NewResolver(s.Users(), s.Roles(), access.Config{CacheSize: 16, CacheTTL: ttl}, nil)
}

func TestAuthorize_AdminBypass(t *testing.T) {
	r := newResolver(newStore(), 0)
	id := access.Identity{UserID: "u-admin", Roles: []string{"ADMIN"}}

	assert.NoError(t, r.Authorize(context.Background(), id, "seguridad:eliminar"))
	assert.NoError(t, r.CheckPermission(context.Background(), id, "emergencias", "crear"))
}

func TestAuthorize_AdminClaimNeedsActiveAdminUser(t *testing.T) {
	r := newResolver(newStore(), 0)
	ctx := context.Background()

	cases := []struct {
		name string
		id   access.Identity
		want error
	}{
		{"usuario desconocido", access.Identity{UserID: "desconocido", Roles: []string{"ADMIN"}}, domain.ErrUnauthorized},
		{"ADMIN desactivado", access.Identity{UserID: "u-admin-baja", Roles: []string{"ADMIN"}}, domain.ErrUnauthorized},
		{"claim ADMIN sin el rol", access.Identity{UserID: "u-consulta", Roles: []string{"ADMIN"}}, domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, r.Authorize(ctx, tc.id, "seguridad:eliminar"), tc.want)
			assert.ErrorIs(t, r.CheckPermission(ctx, tc.id, "seguridad", "eliminar"), tc.want)
		})
	}

	_, err := r.ActiveRoles(ctx, access.Identity{UserID: "u-admin-baja", Roles: []string{"ADMIN"}})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	roles, err := r.ActiveRoles(ctx, access.Identity{UserID: "u-multi"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"CONSULTA", "DIGITADOR"}, roles)
}

func TestAuthorize_AdminRoleFromStoreAlsoBypasses(t *testing.T) {
	r := newResolver(newStore(), 0)
	id := access.Identity{UserID: "u-admin"}

	assert.NoError(t, r.CheckPermission(context.Background(), id, "seguridad", "crear"))
}

func TestCheckPermission_ExactPair(t *testing.T) {
	r := newResolver(newStore(), 0)
	id := access.Identity{UserID: "u-consulta", Roles: []string{"CONSULTA"}}
	ctx := context.Background()

	assert.NoError(t, r.CheckPermission(ctx, id, "inventario", "leer"))
	err := r.CheckPermission(ctx, id, "inventario", "crear")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, domain.Message(err), "inventario:crear")
}

func TestAuthorize_AnyOfRequired(t *testing.T) {
	r := newResolver(newStore(), 0)
	id := access.Identity{UserID: "u-consulta"}
	ctx := context.Background()

	assert.NoError(t, r.Authorize(ctx, id, "inventario:crear", "inventario:leer"))
	err := r.Authorize(ctx, id, "inventario:crear", "entregas:crear")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, domain.Message(err), "inventario:crear, entregas:crear")
}

func TestEffectivePermissions_DedupAcrossRoles(t *testing.T) {
	r := newResolver(newStore(), 0)

	ea, err := r.EffectivePermissions(context.Background(), "u-multi")
	require.NoError(t, err)
	assert.Equal(t, []string{"entregas:crear", "inventario:leer"}, ea.Permissions.Codes())
	assert.ElementsMatch(t, []string{"CONSULTA", "DIGITADOR"}, ea.RoleCodes())
}

func TestEffectivePermissions_UnknownOrInactiveIsUnauthenticated(t *testing.T) {
	r := newResolver(newStore(), 0)
	ctx := context.Background()

	_, err := r.EffectivePermissions(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = r.Authorize(ctx, access.Identity{UserID: "u-inactivo"}, "entregas:crear")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCache_HitsAndInvalidation(t *testing.T) {
	s := newStore()
	r := newResolver(s, time.Minute)
	ctx := context.Background()
	id := access.Identity{UserID: "u-consulta"}

	require.NoError(t, r.CheckPermission(ctx, id, "inventario", "leer"))
	require.NoError(t, r.CheckPermission(ctx, id, "inventario", "leer"))
	assert.Equal(t, 1, s.RoleLoads, "la segunda verificación usa la caché")

	s.AddRole("r-consulta", "CONSULTA", "p-inv-leer", "p-inv-crear")
	assert.Error(t, r.CheckPermission(ctx, id, "inventario", "crear"), "caché vigente hasta invalidar")

	r.Purge()
	assert.NoError(t, r.CheckPermission(ctx, id, "inventario", "crear"))
	assert.Equal(t, 2, s.RoleLoads)

	r.Invalidate("u-consulta")
	require.NoError(t, r.CheckPermission(ctx, id, "inventario", "leer"))
	assert.Equal(t, 3, s.RoleLoads)
}

func TestCache_DisabledRereadsEveryTime(t *testing.T) {
	s := newStore()
	r := newResolver(s, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Authorize(ctx, access.Identity{UserID: "u-consulta"}, "inventario:leer"))
	}
	assert.Equal(t, 3, s.RoleLoads)
}
