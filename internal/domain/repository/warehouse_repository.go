package repository

import (
	"context"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// WarehouseRepository puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	Update(ctx context.Context, w *entity.Warehouse) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, includeInactive bool) ([]*entity.Warehouse, error)
	Delete(ctx context.Context, id string) error
}
