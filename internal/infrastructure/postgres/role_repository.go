package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var (
	_ repository.RoleRepository       = (*RoleRepo)(nil)
	_ repository.PermissionRepository = (*PermissionRepo)(nil)
)

const (
	roleColumns       = `r.id, r.codigo, r.nombre, r.descripcion, r.activo, r.created_at, r.updated_at`
	permissionColumns = `p.id, p.codigo, p.nombre, p.modulo, p.accion, p.descripcion`
)

// RoleRepo roles y su relación rol_permisos.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador de roles.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Create inserta el rol y sus permisos en una sola transacción.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role, permissionIDs []string) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO roles (id, codigo, nombre, descripcion, activo, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			role.ID, role.Code, role.Name, role.Description, role.Active, role.CreatedAt, role.UpdatedAt,
		)
		if err != nil {
			if derr := mapWriteError(err); derr != nil {
				return derr
			}
			return wrapErr("insert role", err)
		}
		return replaceRolePermissions(ctx, tx, role.ID, permissionIDs)
	})
}

// GetByID rol con permisos.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT `+roleColumns+` FROM roles r WHERE r.id = $1`, id)
}

// GetByCode rol por código.
func (r *RoleRepo) GetByCode(ctx context.Context, code string) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT `+roleColumns+` FROM roles r WHERE r.codigo = $1`, code)
}

// GetByIDs roles existentes entre ids.
func (r *RoleRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+roleColumns+` FROM roles r WHERE r.id = ANY($1::uuid[]) ORDER BY r.codigo`, ids)
}

// List roles ordenados por código.
func (r *RoleRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles r`
	if !includeInactive {
		query += ` WHERE r.activo = TRUE`
	}
	return r.list(ctx, query+` ORDER BY r.codigo`)
}

// Update persiste el rol; permissionIDs != nil reemplaza sus permisos.
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role, permissionIDs []string) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE roles SET codigo = $2, nombre = $3, descripcion = $4, activo = $5, updated_at = $6
			WHERE id = $1`,
			role.ID, role.Code, role.Name, role.Description, role.Active, role.UpdatedAt,
		)
		if err != nil {
			if derr := mapWriteError(err); derr != nil {
				return derr
			}
			return wrapErr("update role", err)
		}
		if permissionIDs == nil {
			return nil
		}
		return replaceRolePermissions(ctx, tx, role.ID, permissionIDs)
	})
}

// Delete elimina el rol; rol_permisos cae en cascada.
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("delete role", err)
	}
	return nil
}

// CountUsers usuarios que tienen asignado el rol.
func (r *RoleRepo) CountUsers(ctx context.Context, roleID string) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM usuario_roles WHERE rol_id = $1`, roleID).Scan(&n); err != nil {
		return 0, wrapErr("count role users", err)
	}
	return n, nil
}

// ListActiveByUser roles activos del usuario con sus permisos.
func (r *RoleRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.Role, error) {
	return r.list(ctx, `
		SELECT `+roleColumns+`
		FROM roles r
		JOIN usuario_roles ur ON ur.rol_id = r.id
		WHERE ur.usuario_id = $1 AND r.activo = TRUE
		ORDER BY r.codigo`, userID)
}

func (r *RoleRepo) getOne(ctx context.Context, query, arg string) (*entity.Role, error) {
	role, err := scanRole(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get role", err)
	}
	perms, err := r.permissionsByRole(ctx, []string{role.ID})
	if err != nil {
		return nil, err
	}
	role.Permissions = perms[role.ID]
	return role, nil
}

func (r *RoleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list roles", err)
	}
	var roles []*entity.Role
	var ids []string
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			rows.Close()
			return nil, wrapErr("scan role", err)
		}
		roles = append(roles, role)
		ids = append(ids, role.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list roles", err)
	}
	if len(ids) == 0 {
		return roles, nil
	}
	perms, err := r.permissionsByRole(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		role.Permissions = perms[role.ID]
	}
	return roles, nil
}

// permissionsByRole carga los permisos de varios roles en una sola consulta.
func (r *RoleRepo) permissionsByRole(ctx context.Context, roleIDs []string) (map[string][]entity.Permission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT rp.rol_id, `+permissionColumns+`
		FROM rol_permisos rp
		JOIN permisos p ON p.id = rp.permiso_id
		WHERE rp.rol_id = ANY($1::uuid[])
		ORDER BY p.modulo, p.accion`, roleIDs)
	if err != nil {
		return nil, wrapErr("load role permissions", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.Permission, len(roleIDs))
	for rows.Next() {
		var roleID string
		var p entity.Permission
		if err := rows.Scan(&roleID, &p.ID, &p.Code, &p.Name, &p.Module, &p.Action, &p.Description); err != nil {
			return nil, wrapErr("scan role permission", err)
		}
		out[roleID] = append(out[roleID], p)
	}
	return out, rows.Err()
}

func replaceRolePermissions(ctx context.Context, tx pgx.Tx, roleID string, permissionIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM rol_permisos WHERE rol_id = $1`, roleID); err != nil {
		return wrapErr("clear role permissions", err)
	}
	if len(permissionIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO rol_permisos (rol_id, permiso_id) SELECT $1, unnest($2::uuid[]) ON CONFLICT DO NOTHING`,
		roleID, permissionIDs)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert role permissions", err)
	}
	return nil
}

func scanRole(row scanner) (*entity.Role, error) {
	var role entity.Role
	if err := row.Scan(&role.ID, &role.Code, &role.Name, &role.Description, &role.Active, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}

// PermissionRepo catálogo de permisos.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador del catálogo de permisos.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// List todos los permisos por módulo y acción.
func (r *PermissionRepo) List(ctx context.Context) ([]*entity.Permission, error) {
	return r.list(ctx, `SELECT `+permissionColumns+` FROM permisos p ORDER BY p.modulo, p.accion`)
}

// GetByIDs permisos existentes entre ids.
func (r *PermissionRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+permissionColumns+` FROM permisos p WHERE p.id = ANY($1::uuid[]) ORDER BY p.modulo, p.accion`, ids)
}

func (r *PermissionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Permission, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list permissions", err)
	}
	defer rows.Close()
	var list []*entity.Permission
	for rows.Next() {
		var p entity.Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Module, &p.Action, &p.Description); err != nil {
			return nil, wrapErr("scan permission", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
