package repository

import (
	"context"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías de producto.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByCode(ctx context.Context, code string) (*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, includeInactive bool) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

// UnitRepository puerto de persistencia para unidades de medida.
type UnitRepository interface {
	Create(ctx context.Context, u *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	GetByCode(ctx context.Context, code string) (*entity.Unit, error)
	Update(ctx context.Context, u *entity.Unit) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, includeInactive bool) ([]*entity.Unit, error)
	Delete(ctx context.Context, id string) error
}
