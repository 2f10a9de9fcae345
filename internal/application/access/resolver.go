package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	domainaccess "github.com/jhoicas/ayuda-humanitaria-api/internal/domain/access"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/logger"
)

// Identity claims ya verificados por el middleware de autenticación.
type Identity struct {
	UserID string
	Email  string
	Roles  []string
}

// EffectiveAccess roles activos y permisos efectivos (deduplicados) de un usuario.
type EffectiveAccess struct {
	User        *entity.User
	Roles       []*entity.Role
	Permissions domainaccess.PermissionSet
}

// RoleCodes códigos de los roles activos.
func (e *EffectiveAccess) RoleCodes() []string {
	out := make([]string, 0, len(e.Roles))
	for _, r := range e.Roles {
		out = append(out, r.Code)
	}
	return out
}

// Config tamaño y TTL de la caché usuario -> permisos. TTL <= 0 desactiva la caché.
type Config struct {
	CacheSize int
	CacheTTL  time.Duration
}

// Resolver decide si una identidad puede ejecutar (módulo, acción).
type Resolver struct {
	users repository.UserRepository
	roles repository.RoleRepository
	cache *expirable.LRU[string, *EffectiveAccess]
	log   *logger.Logger
}

// NewResolver construye el resolvedor de acceso.
func NewResolver(users repository.UserRepository, roles repository.RoleRepository, cfg Config, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	r := &Resolver{users: users, roles: roles, log: log.Component("access")}
	if cfg.CacheTTL > 0 && cfg.CacheSize > 0 {
		r.cache = expirable.NewLRU[string, *EffectiveAccess](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return r
}

// Authorize permite si el usuario (activo) tiene el rol ADMIN o al menos uno de los códigos requeridos.
// Los roles del token no bastan: la decisión usa los roles activos leídos del store.
func (r *Resolver) Authorize(ctx context.Context, id Identity, required ...string) error {
	ea, err := r.EffectivePermissions(ctx, id.UserID)
	if err != nil {
		return err
	}
	if len(required) == 0 || domainaccess.IsAdmin(ea.RoleCodes()) || ea.Permissions.HasAny(required...) {
		return nil
	}
	r.log.Debug().Str("user_id", id.UserID).Strs("required", required).Msg("acceso denegado")
	return domain.NewError(domain.ErrForbidden,
		fmt.Sprintf("No tiene permisos para realizar esta acción. Requiere: %s", strings.Join(required, ", ")))
}

// CheckPermission exige el par exacto (module, action). ADMIN también omite esta verificación.
func (r *Resolver) CheckPermission(ctx context.Context, id Identity, module, action string) error {
	ea, err := r.EffectivePermissions(ctx, id.UserID)
	if err != nil {
		return err
	}
	if domainaccess.IsAdmin(ea.RoleCodes()) || ea.Permissions.Has(module, action) {
		return nil
	}
	return domain.NewError(domain.ErrForbidden,
		fmt.Sprintf("No tiene permiso %s", domainaccess.Code(module, action)))
}

// ActiveRoles códigos de los roles activos del usuario.
func (r *Resolver) ActiveRoles(ctx context.Context, id Identity) ([]string, error) {
	ea, err := r.EffectivePermissions(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	return ea.RoleCodes(), nil
}

// EffectivePermissions carga usuario -> roles activos -> permisos y une los códigos.
// Usuario inexistente o inactivo se trata como no autenticado.
func (r *Resolver) EffectivePermissions(ctx context.Context, userID string) (*EffectiveAccess, error) {
	if r.cache != nil {
		if ea, ok := r.cache.Get(userID); ok {
			return ea, nil
		}
	}
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "Usuario no encontrado")
	}
	if !u.Active {
		return nil, domain.NewError(domain.ErrUnauthorized, "Usuario inactivo")
	}
	roles, err := r.roles.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := domainaccess.NewPermissionSet()
	for _, role := range roles {
		set.Add(role.PermissionCodes()...)
	}
	ea := &EffectiveAccess{User: u, Roles: roles, Permissions: set}
	if r.cache != nil {
		r.cache.Add(userID, ea)
	}
	return ea, nil
}

// Invalidate descarta la entrada de un usuario (cambio de roles o de estado).
func (r *Resolver) Invalidate(userID string) {
	if r.cache != nil {
		r.cache.Remove(userID)
	}
}

// Purge vacía la caché (cualquier escritura sobre roles o sus permisos).
func (r *Resolver) Purge() {
	if r.cache != nil {
		r.cache.Purge()
	}
}
