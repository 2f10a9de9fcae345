package repository

import (
	"context"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// RoleRepository puerto de persistencia para roles. Las lecturas cargan Permissions.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role, permissionIDs []string) error
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	GetByCode(ctx context.Context, code string) (*entity.Role, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Role, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.Role, error)
	// Update persiste datos del rol; si permissionIDs != nil reemplaza el conjunto de permisos.
	Update(ctx context.Context, role *entity.Role, permissionIDs []string) error
	Delete(ctx context.Context, id string) error
	CountUsers(ctx context.Context, roleID string) (int64, error)
	// ListActiveByUser roles activos del usuario con sus permisos (join usuario_roles -> rol_permisos).
	ListActiveByUser(ctx context.Context, userID string) ([]*entity.Role, error)
}

// PermissionRepository catálogo de permisos.
type PermissionRepository interface {
	List(ctx context.Context) ([]*entity.Permission, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Permission, error)
}
