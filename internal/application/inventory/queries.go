package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

// Statistics totales de movimientos en un periodo.
type Statistics struct {
	Summary     entity.MovementAggregate
	ByProduct   []entity.MovementAggregate
	ByWarehouse []entity.MovementAggregate
}

// WarehouseStockRow saldo de un producto en una bodega, calculado desde el libro.
type WarehouseStockRow struct {
	Product  *entity.Product
	Entradas int64
	Salidas  int64
}

// Balance entradas menos salidas.
func (r WarehouseStockRow) Balance() int64 { return r.Entradas - r.Salidas }

// WarehouseStock desglose de stock de una bodega.
type WarehouseStock struct {
	Warehouse *entity.Warehouse
	Rows      []WarehouseStockRow
}

// StockCheck compara el contador stock_actual con la suma firmada del libro.
type StockCheck struct {
	ProductID   string
	StockActual int64
	StockLedger int64
}

// Consistent indica si contador y libro coinciden.
func (c StockCheck) Consistent() bool { return c.StockActual == c.StockLedger }

// Movements lista movimientos, más recientes primero.
func (l *Ledger) Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return l.movRepo.List(ctx, filter)
}

// Movement obtiene un movimiento por ID.
func (l *Ledger) Movement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := l.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Movimiento no encontrado")
	}
	return m, nil
}

// Statistics agrega entradas/salidas en [from, to], global, por producto y por bodega.
func (l *Ledger) Statistics(ctx context.Context, from, to *time.Time) (*Statistics, error) {
	filter := repository.MovementFilter{From: from, To: to}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	total, err := l.movRepo.Aggregate(ctx, filter, repository.GroupNone)
	if err != nil {
		return nil, err
	}
	byProduct, err := l.movRepo.Aggregate(ctx, filter, repository.GroupByProduct)
	if err != nil {
		return nil, err
	}
	byWarehouse, err := l.movRepo.Aggregate(ctx, filter, repository.GroupByWarehouse)
	if err != nil {
		return nil, err
	}
	st := &Statistics{ByProduct: byProduct, ByWarehouse: byWarehouse}
	if len(total) > 0 {
		st.Summary = total[0]
	}
	return st, nil
}

// StockByWarehouse saldo por producto en la bodega (entradas - salidas). Omite saldos <= 0.
// Es un agregado del libro, independiente del contador global del producto.
func (l *Ledger) StockByWarehouse(ctx context.Context, warehouseID string) (*WarehouseStock, error) {
	w, err := l.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Bodega no encontrada")
	}
	aggs, err := l.movRepo.Aggregate(ctx, repository.MovementFilter{WarehouseID: warehouseID}, repository.GroupByProduct)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(aggs))
	for _, a := range aggs {
		if a.Balance() > 0 {
			ids = append(ids, a.Key)
		}
	}
	products, err := l.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	rows := make([]WarehouseStockRow, 0, len(ids))
	for _, a := range aggs {
		p, ok := byID[a.Key]
		if !ok || a.Balance() <= 0 {
			continue
		}
		rows = append(rows, WarehouseStockRow{Product: p, Entradas: a.Entradas, Salidas: a.Salidas})
	}
	return &WarehouseStock{Warehouse: w, Rows: rows}, nil
}

// VerifyStock recalcula el saldo del producto desde el libro y lo compara con stock_actual.
func (l *Ledger) VerifyStock(ctx context.Context, productID string) (*StockCheck, error) {
	p, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Producto no encontrado")
	}
	aggs, err := l.movRepo.Aggregate(ctx, repository.MovementFilter{ProductID: productID}, repository.GroupNone)
	if err != nil {
		return nil, err
	}
	check := &StockCheck{ProductID: p.ID, StockActual: p.StockActual}
	if len(aggs) > 0 {
		check.StockLedger = aggs[0].Balance()
	}
	if !check.Consistent() {
		l.log.Warn().
			Str("product_id", p.ID).
			Int64("stock_actual", check.StockActual).
			Int64("stock_ledger", check.StockLedger).
			Msg("stock desalineado con el libro")
	}
	return check, nil
}

func validateFilter(f repository.MovementFilter) error {
	if f.Type != "" && !entity.MovementType(f.Type).Valid() {
		return domain.NewError(domain.ErrInvalidInput, "tipo debe ser entrada o salida")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return domain.NewError(domain.ErrInvalidInput, "fechaInicio no puede ser posterior a fechaFin")
	}
	return nil
}
