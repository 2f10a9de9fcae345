package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/logger"
)

// Ledger es el libro de stock: mantiene Product.StockActual igual a la suma firmada de sus movimientos.
// Toda escritura bloquea la fila del producto (SELECT FOR UPDATE) y aplica un UPDATE condicional
// dentro de la misma transacción que inserta o borra el movimiento.
type Ledger struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	movRepo       repository.MovementRepository
	log           *logger.Logger
	now           func() time.Time
}

// NewLedger construye el libro de stock.
func NewLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	movRepo repository.MovementRepository,
	log *logger.Logger,
) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		movRepo:       movRepo,
		log:           log.Component("ledger"),
		now:           time.Now,
	}
}

// RecordInput datos de un movimiento. Source vacío equivale a SourceMovement.
type RecordInput struct {
	Type        entity.MovementType
	ProductID   string
	WarehouseID string
	Quantity    int64
	Notes       string
	ActorID     string
	Source      entity.MovementSource
}

// RecordResult movimiento creado con el stock antes y después.
type RecordResult struct {
	Movement      *entity.Movement
	PreviousStock int64
	NewStock      int64
}

// RevertResult resultado de eliminar un movimiento.
type RevertResult struct {
	Movement      *entity.Movement
	RevertedStock int64
}

// Record registra una entrada o salida: valida, bloquea el producto y escribe movimiento + stock en una sola transacción.
func (l *Ledger) Record(ctx context.Context, in RecordInput) (*RecordResult, error) {
	if err := validateRecord(&in); err != nil {
		return nil, err
	}
	if err := l.ensureWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	var res *RecordResult
	err := l.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		var err error
		res, err = l.apply(ctx, productRepo, movRepo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.logApplied(res)
	return res, nil
}

// AdjustInput ajuste manual de stock de un producto.
type AdjustInput struct {
	ProductID   string
	Type        entity.MovementType
	Quantity    int64
	WarehouseID string
	Notes       string
	ActorID     string
}

// Adjust es Record con Source=ajuste; sin observaciones usa "<tipo> de stock".
func (l *Ledger) Adjust(ctx context.Context, in AdjustInput) (*RecordResult, error) {
	notes := in.Notes
	if notes == "" {
		notes = fmt.Sprintf("%s de stock", in.Type)
	}
	return l.Record(ctx, RecordInput{
		Type:        in.Type,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Notes:       notes,
		ActorID:     in.ActorID,
		Source:      entity.SourceAdjust,
	})
}

// RecordInTx aplica un movimiento con repositorios de una transacción abierta por el llamador
// (p. ej. alta de producto + stock inicial). La bodega debe validarse antes con EnsureWarehouse.
func (l *Ledger) RecordInTx(ctx context.Context, productRepo repository.ProductRepository, movRepo repository.MovementRepository, in RecordInput) (*RecordResult, error) {
	if err := validateRecord(&in); err != nil {
		return nil, err
	}
	res, err := l.apply(ctx, productRepo, movRepo, in)
	if err != nil {
		return nil, err
	}
	l.logApplied(res)
	return res, nil
}

// EnsureWarehouse devuelve NotFound si la bodega no existe.
func (l *Ledger) EnsureWarehouse(ctx context.Context, warehouseID string) error {
	if warehouseID == "" {
		return domain.NewError(domain.ErrInvalidInput, "bodegaId es obligatorio")
	}
	return l.ensureWarehouse(ctx, warehouseID)
}

// Revert elimina un movimiento aplicando el delta inverso sobre el stock.
// Si el stock revertido quedara negativo devuelve ErrInvalidRevert y no cambia nada.
func (l *Ledger) Revert(ctx context.Context, movementID string) (*RevertResult, error) {
	var res *RevertResult
	err := l.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		m, err := movRepo.GetByIDForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.NewError(domain.ErrNotFound, "Movimiento no encontrado")
		}
		p, err := productRepo.GetByIDForUpdate(ctx, m.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewError(domain.ErrNotFound, "Producto no encontrado")
		}

		inverse := -m.Delta()
		reverted, ok := addStock(p.StockActual, inverse)
		if !ok {
			return overflow()
		}
		if reverted < 0 {
			return domain.NewError(domain.ErrInvalidRevert,
				fmt.Sprintf("No se puede revertir el movimiento: el stock quedaría en %d", reverted))
		}
		if err := movRepo.Delete(ctx, m.ID); err != nil {
			return err
		}
		newStock, applied, err := productRepo.ApplyStockDelta(ctx, p.ID, inverse)
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewError(domain.ErrInvalidRevert, "No se puede revertir el movimiento: stock insuficiente")
		}
		res = &RevertResult{Movement: m, RevertedStock: newStock}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("movement_id", res.Movement.ID).
		Str("product_id", res.Movement.ProductID).
		Str("warehouse_id", res.Movement.WarehouseID).
		Int64("cantidad", res.Movement.Quantity).
		Int64("stock", res.RevertedStock).
		Msg("movimiento revertido")
	return res, nil
}

func (l *Ledger) apply(ctx context.Context, productRepo repository.ProductRepository, movRepo repository.MovementRepository, in RecordInput) (*RecordResult, error) {
	p, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Producto no encontrado")
	}

	delta := in.Type.Sign() * in.Quantity
	next, ok := addStock(p.StockActual, delta)
	if !ok {
		return nil, overflow()
	}
	if next < 0 {
		return nil, insufficient(p.StockActual, in.Quantity)
	}
	newStock, applied, err := productRepo.ApplyStockDelta(ctx, p.ID, delta)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, insufficient(p.StockActual, in.Quantity)
	}

	now := l.now()
	m := &entity.Movement{
		ID:           uuid.New().String(),
		Type:         in.Type,
		ProductID:    p.ID,
		WarehouseID:  in.WarehouseID,
		Quantity:     in.Quantity,
		Date:         now,
		Notes:        in.Notes,
		Source:       in.Source,
		RecordedByID: in.ActorID,
		CreatedAt:    now,
	}
	if err := movRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return &RecordResult{Movement: m, PreviousStock: p.StockActual, NewStock: newStock}, nil
}

func (l *Ledger) ensureWarehouse(ctx context.Context, id string) error {
	w, err := l.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.NewError(domain.ErrNotFound, "Bodega no encontrada")
	}
	return nil
}

func (l *Ledger) logApplied(res *RecordResult) {
	l.log.Info().
		Str("movement_id", res.Movement.ID).
		Str("tipo", string(res.Movement.Type)).
		Str("source", string(res.Movement.Source)).
		Str("product_id", res.Movement.ProductID).
		Str("warehouse_id", res.Movement.WarehouseID).
		Int64("cantidad", res.Movement.Quantity).
		Int64("stock_anterior", res.PreviousStock).
		Int64("stock", res.NewStock).
		Msg("movimiento aplicado")
}

func validateRecord(in *RecordInput) error {
	if !in.Type.Valid() {
		return domain.NewError(domain.ErrInvalidInput, "tipo debe ser entrada o salida")
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return domain.NewError(domain.ErrInvalidInput, "productoId y bodegaId son obligatorios")
	}
	if in.Quantity <= 0 {
		return domain.NewError(domain.ErrInvalidInput, "cantidad debe ser un entero positivo")
	}
	if in.ActorID == "" {
		return domain.NewError(domain.ErrInvalidInput, "el movimiento requiere el usuario que lo registra")
	}
	if in.Source == "" {
		in.Source = entity.SourceMovement
	}
	return nil
}

// addStock suma delta al stock; ok es false si el resultado no cabe en int64 (BIGINT en la base).
func addStock(stock, delta int64) (int64, bool) {
	if delta > 0 && stock > math.MaxInt64-delta {
		return 0, false
	}
	return stock + delta, true
}

func overflow() error {
	return domain.NewError(domain.ErrInvalidInput, "cantidad excede el stock máximo admitido")
}

func insufficient(available, requested int64) error {
	return domain.NewError(domain.ErrInsufficientStock,
		fmt.Sprintf("Stock insuficiente. Disponible: %d, solicitado: %d", available, requested))
}
