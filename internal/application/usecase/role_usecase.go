package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

// AccessCache caché de permisos efectivos que debe invalidarse al cambiar roles o usuarios.
type AccessCache interface {
	Invalidate(userID string)
	Purge()
}

// RoleUseCase administración de roles y catálogo de permisos.
type RoleUseCase struct {
	roleRepo repository.RoleRepository
	permRepo repository.PermissionRepository
	cache    AccessCache
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(roleRepo repository.RoleRepository, permRepo repository.PermissionRepository, cache AccessCache) *RoleUseCase {
	return &RoleUseCase{roleRepo: roleRepo, permRepo: permRepo, cache: cache}
}

// List lista roles con sus permisos.
func (uc *RoleUseCase) List(ctx context.Context, includeInactive bool) ([]dto.RoleResponse, error) {
	roles, err := uc.roleRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		items = append(items, toRoleResponse(r))
	}
	return items, nil
}

// GetByID obtiene un rol.
func (uc *RoleUseCase) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	r, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(r)
	return &resp, nil
}

// Create crea un rol. El código se normaliza a mayúsculas.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "codigo y nombre son obligatorios")
	}
	existing, err := uc.roleRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewError(domain.ErrDuplicate, "Ya existe un rol con ese código")
	}
	permIDs, err := uc.ensurePermissions(ctx, in.PermissionIDs)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	role := &entity.Role{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.roleRepo.Create(ctx, role, permIDs); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewError(domain.ErrDuplicate, "Ya existe un rol con ese código")
		}
		return nil, err
	}
	return uc.GetByID(ctx, role.ID)
}

// Update actualiza datos y, si se envían, reemplaza los permisos del rol.
func (uc *RoleUseCase) Update(ctx context.Context, id string, in dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "nombre no puede ser vacío")
		}
		role.Name = name
	}
	if in.Description != nil {
		role.Description = *in.Description
	}
	if in.Active != nil {
		if !*in.Active && role.Code == entity.RoleAdmin {
			return nil, domain.NewError(domain.ErrInvalidInput, "El rol ADMIN no puede desactivarse")
		}
		role.Active = *in.Active
	}
	var permIDs []string
	if in.PermissionIDs != nil {
		if permIDs, err = uc.ensurePermissions(ctx, *in.PermissionIDs); err != nil {
			return nil, err
		}
	}
	role.UpdatedAt = time.Now()
	if err := uc.roleRepo.Update(ctx, role, permIDs); err != nil {
		return nil, err
	}
	uc.cache.Purge()
	return uc.GetByID(ctx, id)
}

// Delete elimina un rol sin usuarios asignados. ADMIN está protegido.
func (uc *RoleUseCase) Delete(ctx context.Context, id string) error {
	role, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if role.Code == entity.RoleAdmin {
		return domain.NewError(domain.ErrInvalidInput, "El rol ADMIN no puede eliminarse")
	}
	users, err := uc.roleRepo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 {
		return domain.NewError(domain.ErrConflict, "No se puede eliminar un rol asignado a usuarios")
	}
	if err := uc.roleRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Purge()
	return nil
}

// Permissions catálogo completo de permisos, también agrupado por módulo.
func (uc *RoleUseCase) Permissions(ctx context.Context) (*dto.PermissionCatalogResponse, error) {
	perms, err := uc.permRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.PermissionCatalogResponse{
		Permissions: make([]dto.PermissionResponse, 0, len(perms)),
		Grouped:     make(map[string][]dto.PermissionResponse),
	}
	for _, p := range perms {
		pr := toPermissionResponse(p)
		resp.Permissions = append(resp.Permissions, pr)
		resp.Grouped[p.Module] = append(resp.Grouped[p.Module], pr)
	}
	return resp, nil
}

func (uc *RoleUseCase) load(ctx context.Context, id string) (*entity.Role, error) {
	r, err := uc.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Rol no encontrado")
	}
	return r, nil
}

// ensurePermissions deduplica ids y verifica que todos existan en el catálogo.
func (uc *RoleUseCase) ensurePermissions(ctx context.Context, ids []string) ([]string, error) {
	uniq := dedup(ids)
	if len(uniq) == 0 {
		return []string{}, nil
	}
	found, err := uc.permRepo.GetByIDs(ctx, uniq)
	if err != nil {
		return nil, err
	}
	if len(found) != len(uniq) {
		return nil, domain.NewError(domain.ErrInvalidInput, "Uno o más permisos no existen")
	}
	return uniq, nil
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
