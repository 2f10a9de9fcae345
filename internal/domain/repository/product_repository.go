package repository

import (
	"context"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven (nil, nil) cuando no existe la fila.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	// Update persiste los datos descriptivos; nunca toca stock_actual.
	Update(ctx context.Context, product *entity.Product) error
	// ApplyStockDelta suma delta a stock_actual solo si el resultado es >= 0.
	// applied=false indica que la condición no se cumplió y no se escribió nada.
	ApplyStockDelta(ctx context.Context, id string, delta int64) (newStock int64, applied bool, err error)
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int64, error)
	Delete(ctx context.Context, id string) error
}
