package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/testutil/memstore"
)

const (
	productID   = "prod-kit-aseo"
	warehouseID = "bod-central"
	otherWH     = "bod-norte"
	actorID     = "user-bodeguero"
)

func newLedger(t *testing.T) (*inventory.Ledger, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	s.AddWarehouse(warehouseID, "CENTRAL")
	s.AddWarehouse(otherWH, "NORTE")
	s.AddProduct(productID, "KIT-ASEO", 20)
	l := inventory.NewLedger(s.TxRunner(), s.Products(), s.Warehouses(), s.Movements(), nil)
	return l, s
}

func record(t *testing.T, l *inventory.Ledger, typ entity.MovementType, qty int64) (*inventory.RecordResult, error) {
	t.Helper()
	return l.Record(context.Background(), inventory.RecordInput{
		Type: typ, ProductID: productID, WarehouseID: warehouseID, Quantity: qty, ActorID: actorID,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Record
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_EntradaAndSalidaUpdateStock(t *testing.T) {
	l, s := newLedger(t)

	res, err := record(t, l, entity.MovementIn, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.PreviousStock)
	assert.Equal(t, int64(50), res.NewStock)
	assert.Equal(t, entity.SourceMovement, res.Movement.Source)
	assert.Equal(t, actorID, res.Movement.RecordedByID)

	res, err = record(t, l, entity.MovementOut, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.PreviousStock)
	assert.Equal(t, int64(20), res.NewStock)
	assert.Equal(t, int64(20), s.StockOf(productID))
	assert.Equal(t, 2, s.MovementCount())
}

func TestRecord_StockEqualsLedgerSumExcludingRejected(t *testing.T) {
	l, _ := newLedger(t)
	ops := []struct {
		typ entity.MovementType
		qty int64
	}{
		// la salida de 7 y la última salida de 1 se rechazan
		{entity.MovementIn, 10}, {entity.MovementOut, 4}, {entity.MovementOut, 7},
		{entity.MovementIn, 3}, {entity.MovementOut, 9}, {entity.MovementOut, 1},
	}
	var want int64
	for _, op := range ops {
		_, err := record(t, l, op.typ, op.qty)
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			continue
		}
		want += op.typ.Sign() * op.qty
	}
	assert.Equal(t, int64(0), want)

	check, err := l.VerifyStock(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, want, check.StockActual)
	assert.Equal(t, want, check.StockLedger)
	assert.True(t, check.Consistent())
}

func TestRecord_SalidaAboveStockRejected(t *testing.T) {
	l, s := newLedger(t)
	_, err := record(t, l, entity.MovementIn, 5)
	require.NoError(t, err)

	_, err = record(t, l, entity.MovementOut, 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, domain.Message(err), "Disponible: 5")
	assert.Equal(t, int64(5), s.StockOf(productID))
	assert.Equal(t, 1, s.MovementCount())
}

func TestRecord_Validation(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	cases := map[string]inventory.RecordInput{
		"tipo inválido":   {Type: "traslado", ProductID: productID, WarehouseID: warehouseID, Quantity: 1, ActorID: actorID},
		"cantidad cero":   {Type: entity.MovementIn, ProductID: productID, WarehouseID: warehouseID, Quantity: 0, ActorID: actorID},
		"cantidad neg":    {Type: entity.MovementIn, ProductID: productID, WarehouseID: warehouseID, Quantity: -3, ActorID: actorID},
		"sin bodega":      {Type: entity.MovementIn, ProductID: productID, Quantity: 1, ActorID: actorID},
		"sin registrador": {Type: entity.MovementIn, ProductID: productID, WarehouseID: warehouseID, Quantity: 1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := l.Record(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRecord_NotFound(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.Record(ctx, inventory.RecordInput{Type: entity.MovementIn, ProductID: "nope", WarehouseID: warehouseID, Quantity: 1, ActorID: actorID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.Record(ctx, inventory.RecordInput{Type: entity.MovementIn, ProductID: productID, WarehouseID: "nope", Quantity: 1, ActorID: actorID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecord_MovementInsertFailureRollsBackStock(t *testing.T) {
	l, s := newLedger(t)
	_, err := record(t, l, entity.MovementIn, 10)
	require.NoError(t, err)

	boom := errors.New("insert movimiento: conexión perdida")
	s.FailMovementCreate = boom

	_, err = record(t, l, entity.MovementIn, 5)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(10), s.StockOf(productID), "el stock no debe cambiar si el movimiento no se guardó")
	assert.Equal(t, 1, s.MovementCount())
}

// Cubre la lógica del libro bajo concurrencia; el memstore serializa transacciones.
// El bloqueo de fila y el UPDATE condicional de Postgres se verifican en postgres/stock_lock_test.go.
func TestRecord_ConcurrentSalidasNeverGoNegative(t *testing.T) {
	l, s := newLedger(t)
	_, err := record(t, l, entity.MovementIn, 10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := record(t, l, entity.MovementOut, 1); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, int64(0), s.StockOf(productID))
}

func TestAdjust_DefaultNotesAndSource(t *testing.T) {
	l, _ := newLedger(t)

	res, err := l.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: productID, Type: entity.MovementIn, Quantity: 8, WarehouseID: warehouseID, ActorID: actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, "entrada de stock", res.Movement.Notes)
	assert.Equal(t, entity.SourceAdjust, res.Movement.Source)
	assert.Equal(t, int64(8), res.NewStock)

	res, err = l.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: productID, Type: entity.MovementOut, Quantity: 3, WarehouseID: warehouseID, ActorID: actorID, Notes: "merma",
	})
	require.NoError(t, err)
	assert.Equal(t, "merma", res.Movement.Notes)
	assert.Equal(t, int64(5), res.NewStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Revert
// ──────────────────────────────────────────────────────────────────────────────

func TestRevert_IsInverseOfRecord(t *testing.T) {
	l, s := newLedger(t)
	_, err := record(t, l, entity.MovementIn, 40)
	require.NoError(t, err)

	res, err := record(t, l, entity.MovementOut, 15)
	require.NoError(t, err)
	require.Equal(t, int64(25), s.StockOf(productID))

	rev, err := l.Revert(context.Background(), res.Movement.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), rev.RevertedStock)
	assert.Equal(t, int64(40), s.StockOf(productID))
	assert.Equal(t, 1, s.MovementCount())
}

func TestRevert_NegativeStockRejected(t *testing.T) {
	l, s := newLedger(t)
	in, err := record(t, l, entity.MovementIn, 10)
	require.NoError(t, err)
	_, err = record(t, l, entity.MovementOut, 8)
	require.NoError(t, err)

	_, err = l.Revert(context.Background(), in.Movement.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidRevert)
	assert.Equal(t, int64(2), s.StockOf(productID))
	assert.Equal(t, 2, s.MovementCount())
}

func TestRevert_NotFound(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Revert(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockByWarehouse_SignedSumsOmitZero(t *testing.T) {
	l, s := newLedger(t)
	s.AddProduct("prod-agua", "AGUA-5L", 0)
	ctx := context.Background()

	_, err := record(t, l, entity.MovementIn, 30)
	require.NoError(t, err)
	_, err = record(t, l, entity.MovementOut, 12)
	require.NoError(t, err)
	_, err = l.Record(ctx, inventory.RecordInput{Type: entity.MovementIn, ProductID: "prod-agua", WarehouseID: warehouseID, Quantity: 4, ActorID: actorID})
	require.NoError(t, err)
	_, err = l.Record(ctx, inventory.RecordInput{Type: entity.MovementOut, ProductID: "prod-agua", WarehouseID: warehouseID, Quantity: 4, ActorID: actorID})
	require.NoError(t, err)
	_, err = l.Record(ctx, inventory.RecordInput{Type: entity.MovementIn, ProductID: productID, WarehouseID: otherWH, Quantity: 100, ActorID: actorID})
	require.NoError(t, err)

	ws, err := l.StockByWarehouse(ctx, warehouseID)
	require.NoError(t, err)
	require.Len(t, ws.Rows, 1, "el agua quedó en 0 y se omite")
	row := ws.Rows[0]
	assert.Equal(t, productID, row.Product.ID)
	assert.Equal(t, int64(30), row.Entradas)
	assert.Equal(t, int64(12), row.Salidas)
	assert.Equal(t, int64(18), row.Balance())
	assert.Equal(t, int64(118), s.StockOf(productID), "el contador es global a todas las bodegas")

	_, err = l.StockByWarehouse(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatistics(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	_, err := record(t, l, entity.MovementIn, 20)
	require.NoError(t, err)
	_, err = record(t, l, entity.MovementOut, 5)
	require.NoError(t, err)
	_, err = l.Record(ctx, inventory.RecordInput{Type: entity.MovementIn, ProductID: productID, WarehouseID: otherWH, Quantity: 7, ActorID: actorID})
	require.NoError(t, err)

	st, err := l.Statistics(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(27), st.Summary.Entradas)
	assert.Equal(t, int64(5), st.Summary.Salidas)
	assert.Equal(t, int64(3), st.Summary.Count)
	require.Len(t, st.ByProduct, 1)
	assert.Equal(t, int64(22), st.ByProduct[0].Balance())
	require.Len(t, st.ByWarehouse, 2)
	assert.Equal(t, warehouseID, st.ByWarehouse[0].Key, "ordenado por número de movimientos")
}

func TestMovements_FilterValidation(t *testing.T) {
	l, _ := newLedger(t)
	_, err := record(t, l, entity.MovementIn, 3)
	require.NoError(t, err)
	_, err = record(t, l, entity.MovementOut, 1)
	require.NoError(t, err)

	list, err := l.Movements(context.Background(), repository.MovementFilter{Type: "salida"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.MovementOut, list[0].Type)
	require.NotNil(t, list[0].Warehouse)

	_, err = l.Movements(context.Background(), repository.MovementFilter{Type: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.Movement(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyStock(t *testing.T) {
	l, s := newLedger(t)
	ctx := context.Background()

	check, err := l.VerifyStock(ctx, productID)
	require.NoError(t, err)
	assert.True(t, check.Consistent(), "sin movimientos ambos valen 0")

	_, err = record(t, l, entity.MovementIn, 40)
	require.NoError(t, err)
	_, err = record(t, l, entity.MovementOut, 15)
	require.NoError(t, err)

	check, err = l.VerifyStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), check.StockActual)
	assert.Equal(t, int64(25), check.StockLedger)
	assert.True(t, check.Consistent())

	s.SetStock(productID, 30)
	check, err = l.VerifyStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), check.StockActual)
	assert.Equal(t, int64(25), check.StockLedger)
	assert.False(t, check.Consistent())

	_, err = l.VerifyStock(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecord_EntradaOverflowIsValidation(t *testing.T) {
	l, s := newLedger(t)
	_, err := record(t, l, entity.MovementIn, 10)
	require.NoError(t, err)

	_, err = record(t, l, entity.MovementIn, math.MaxInt64)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), s.StockOf(productID))
	assert.Equal(t, 1, s.MovementCount())

	_, err = record(t, l, entity.MovementIn, math.MaxInt64-10)
	require.NoError(t, err, "justo en el límite se acepta")
	assert.Equal(t, int64(math.MaxInt64), s.StockOf(productID))
}
