package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `u.id, u.nombres, u.apellidos, u.email, u.celular, u.password_hash, u.activo, u.ultimo_acceso, u.created_at, u.updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario con sus roles.
func (r *UserRepo) Create(ctx context.Context, user *entity.User, roleIDs []string) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO usuarios (id, nombres, apellidos, email, celular, password_hash, activo, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.PasswordHash, user.Active,
			user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			if derr := mapWriteError(err); derr != nil {
				return derr
			}
			return wrapErr("insert user", err)
		}
		return replaceUserRoles(ctx, tx, user.ID, roleIDs)
	})
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios u WHERE u.id = $1`, id)
}

// GetByEmail búsqueda sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios u WHERE lower(u.email) = lower($1)`, email)
}

// List usuarios filtrados y paginados, ordenados por apellidos y nombres.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	var where []string
	var args []any
	pos := 1
	if f.Search != "" {
		where = append(where, fmt.Sprintf(
			"(lower(u.nombres) LIKE $%d OR lower(u.apellidos) LIKE $%d OR lower(u.email) LIKE $%d)", pos, pos, pos))
		args = append(args, likePattern(f.Search))
		pos++
	}
	if f.Active != nil {
		where = append(where, fmt.Sprintf("u.activo = $%d", pos))
		args = append(args, *f.Active)
		pos++
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios u`+cond, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count users", err)
	}

	query := `SELECT ` + userColumns + ` FROM usuarios u` + cond + ` ORDER BY u.apellidos, u.nombres`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list users", err)
	}
	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, 0, wrapErr("scan user", err)
		}
		users = append(users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list users", err)
	}
	if err := r.attachRoles(ctx, users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update persiste datos del usuario; roleIDs != nil reemplaza sus roles.
func (r *UserRepo) Update(ctx context.Context, user *entity.User, roleIDs []string) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE usuarios SET nombres = $2, apellidos = $3, email = $4, celular = $5, activo = $6, updated_at = $7
			WHERE id = $1`,
			user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.Active, user.UpdatedAt,
		)
		if err != nil {
			if derr := mapWriteError(err); derr != nil {
				return derr
			}
			return wrapErr("update user", err)
		}
		if roleIDs == nil {
			return nil
		}
		return replaceUserRoles(ctx, tx, user.ID, roleIDs)
	})
}

// SetActive activa o desactiva el usuario.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.q.Exec(ctx, `UPDATE usuarios SET activo = $2, updated_at = now() WHERE id = $1`, id, active); err != nil {
		return wrapErr("set user active", err)
	}
	return nil
}

// UpdatePassword reemplaza el hash de contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if _, err := r.q.Exec(ctx, `UPDATE usuarios SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash); err != nil {
		return wrapErr("update password", err)
	}
	return nil
}

// TouchLastAccess registra el último login.
func (r *UserRepo) TouchLastAccess(ctx context.Context, id string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE usuarios SET ultimo_acceso = $2 WHERE id = $1`, id, at); err != nil {
		return wrapErr("touch last access", err)
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get user", err)
	}
	if err := r.attachRoles(ctx, []*entity.User{u}); err != nil {
		return nil, err
	}
	return u, nil
}

// attachRoles carga los roles (sin permisos) de los usuarios en una consulta.
func (r *UserRepo) attachRoles(ctx context.Context, users []*entity.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]string, 0, len(users))
	byID := make(map[string]*entity.User, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
		byID[u.ID] = u
	}
	rows, err := r.q.Query(ctx, `
		SELECT ur.usuario_id, `+roleColumns+`
		FROM usuario_roles ur
		JOIN roles r ON r.id = ur.rol_id
		WHERE ur.usuario_id = ANY($1::uuid[])
		ORDER BY r.codigo`, ids)
	if err != nil {
		return wrapErr("load user roles", err)
	}
	defer rows.Close()
	for rows.Next() {
		var userID string
		var role entity.Role
		if err := rows.Scan(&userID, &role.ID, &role.Code, &role.Name, &role.Description, &role.Active,
			&role.CreatedAt, &role.UpdatedAt); err != nil {
			return wrapErr("scan user role", err)
		}
		if u := byID[userID]; u != nil {
			u.Roles = append(u.Roles, role)
		}
	}
	return rows.Err()
}

func replaceUserRoles(ctx context.Context, tx pgx.Tx, userID string, roleIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM usuario_roles WHERE usuario_id = $1`, userID); err != nil {
		return wrapErr("clear user roles", err)
	}
	if len(roleIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO usuario_roles (usuario_id, rol_id) SELECT $1, unnest($2::uuid[]) ON CONFLICT DO NOTHING`,
		userID, roleIDs)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert user roles", err)
	}
	return nil
}

func scanUser(row scanner) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash, &u.Active,
		&u.LastAccessAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)

// RefreshTokenRepo refresh tokens emitidos; el id es el jti del JWT.
type RefreshTokenRepo struct {
	q Querier
}

// NewRefreshTokenRepository construye el adaptador.
func NewRefreshTokenRepository(q Querier) *RefreshTokenRepo {
	return &RefreshTokenRepo{q: q}
}

func (r *RefreshTokenRepo) Create(ctx context.Context, t *entity.RefreshToken) error {
	_, err := r.q.Exec(ctx, `INSERT INTO refresh_tokens (id, usuario_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.UserID, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return wrapErr("insert refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepo) GetByID(ctx context.Context, id string) (*entity.RefreshToken, error) {
	var t entity.RefreshToken
	err := r.q.QueryRow(ctx, `SELECT id, usuario_id, expires_at, created_at FROM refresh_tokens WHERE id = $1`, id).
		Scan(&t.ID, &t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get refresh token", err)
	}
	return &t, nil
}

func (r *RefreshTokenRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id); err != nil {
		return wrapErr("delete refresh token", err)
	}
	return nil
}

// DeleteByUser revoca todas las sesiones del usuario.
func (r *RefreshTokenRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM refresh_tokens WHERE usuario_id = $1`, userID); err != nil {
		return wrapErr("delete user refresh tokens", err)
	}
	return nil
}
