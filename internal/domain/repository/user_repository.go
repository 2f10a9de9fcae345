package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios. Las lecturas cargan Roles (sin permisos).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User, roleIDs []string) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, filter UserFilter) ([]*entity.User, int64, error)
	// Update persiste datos del usuario; si roleIDs != nil reemplaza sus roles.
	Update(ctx context.Context, user *entity.User, roleIDs []string) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastAccess(ctx context.Context, id string, at time.Time) error
}

// RefreshTokenRepository almacén de refresh tokens emitidos.
type RefreshTokenRepository interface {
	Create(ctx context.Context, t *entity.RefreshToken) error
	GetByID(ctx context.Context, id string) (*entity.RefreshToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
