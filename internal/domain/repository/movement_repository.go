package repository

import (
	"context"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos (append-only; Delete solo como compensación).
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	Delete(ctx context.Context, id string) error
	// List devuelve los movimientos más recientes primero, con producto, bodega y registrador cargados.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
	// CountByWarehouses devuelve el número de movimientos por bodega (ids ausentes = 0).
	CountByWarehouses(ctx context.Context, warehouseIDs []string) (map[string]int64, error)
	// Aggregate suma entradas y salidas según filter, agrupando por producto, bodega o en un único total.
	// Los grupos se ordenan por número de movimientos descendente.
	Aggregate(ctx context.Context, filter MovementFilter, group GroupBy) ([]entity.MovementAggregate, error)
}
