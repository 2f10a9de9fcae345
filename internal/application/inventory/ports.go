package inventory

import (
	"context"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// El movimiento y el cambio de stock_actual se escriben siempre dentro del mismo Run.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error) error
}
