package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ayuda-humanitaria-api/internal/domain/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/testutil/memstore"
)

type ledgerFeature struct {
	store          *memstore.Store
	ledger         *inventory.Ledger
	warehouseID    string
	openingID      string
	lastMovementID string
	err            error
}

func (f *ledgerFeature) reset() {
	f.store = memstore.New()
	f.ledger = inventory.NewLedger(f.store.TxRunner(), f.store.Products(), f.store.Warehouses(), f.store.Movements(), nil)
	f.warehouseID, f.openingID, f.lastMovementID, f.err = "", "", "", nil
}

func (f *ledgerFeature) unProductoConStockInicial(min, initial int, warehouseCode string) error {
	f.warehouseID = "bod-" + warehouseCode
	f.store.AddWarehouse(f.warehouseID, warehouseCode)
	f.store.AddProduct(productID, "KIT-FAMILIAR", int64(min))
	res, err := f.ledger.Record(context.Background(), inventory.RecordInput{
		Type: entity.MovementIn, ProductID: productID, WarehouseID: f.warehouseID,
		Quantity: int64(initial), ActorID: actorID, Source: entity.SourceOpening,
	})
	if err != nil {
		return err
	}
	f.openingID = res.Movement.ID
	return nil
}

func (f *ledgerFeature) register(typ entity.MovementType, qty int) {
	res, err := f.ledger.Record(context.Background(), inventory.RecordInput{
		Type: typ, ProductID: productID, WarehouseID: f.warehouseID, Quantity: int64(qty), ActorID: actorID,
	})
	f.err = err
	if err == nil {
		f.lastMovementID = res.Movement.ID
	}
}

func (f *ledgerFeature) registroUnaEntrada(qty int) error {
	f.register(entity.MovementIn, qty)
	return f.err
}

func (f *ledgerFeature) registroUnaSalida(qty int) error {
	f.register(entity.MovementOut, qty)
	return f.err
}

func (f *ledgerFeature) intentoRegistrarUnaSalida(qty int) error {
	f.register(entity.MovementOut, qty)
	return nil
}

func (f *ledgerFeature) eliminoElUltimoMovimiento() error {
	_, err := f.ledger.Revert(context.Background(), f.lastMovementID)
	return err
}

func (f *ledgerFeature) intentoEliminarElMovimientoInicial() error {
	_, f.err = f.ledger.Revert(context.Background(), f.openingID)
	return nil
}

func (f *ledgerFeature) elStockEsYElEstadoEs(stock int, status string) error {
	p, err := f.store.Products().GetByID(context.Background(), productID)
	if err != nil {
		return err
	}
	if p.StockActual != int64(stock) {
		return fmt.Errorf("stock esperado %d, obtenido %d", stock, p.StockActual)
	}
	if got := domaininv.ComputeStockStatus(p.StockActual, p.StockMin); string(got) != status {
		return fmt.Errorf("estado esperado %q, obtenido %q", status, got)
	}
	return nil
}

func (f *ledgerFeature) rechazadaPor(kind error) error {
	if !errors.Is(f.err, kind) {
		return fmt.Errorf("se esperaba %v, obtenido %v", kind, f.err)
	}
	return nil
}

func initializeLedgerScenario(ctx *godog.ScenarioContext) {
	f := &ledgerFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	ctx.Step(`^un producto con stock mínimo (\d+) y stock inicial (\d+) en la bodega "([^"]*)"$`, f.unProductoConStockInicial)
	ctx.Step(`^registro una entrada de (\d+)$`, f.registroUnaEntrada)
	ctx.Step(`^registro una salida de (\d+)$`, f.registroUnaSalida)
	ctx.Step(`^intento registrar una salida de (\d+)$`, f.intentoRegistrarUnaSalida)
	ctx.Step(`^elimino el último movimiento$`, f.eliminoElUltimoMovimiento)
	ctx.Step(`^intento eliminar el movimiento de stock inicial$`, f.intentoEliminarElMovimientoInicial)
	ctx.Step(`^el stock es (\d+) y el estado es "([^"]*)"$`, f.elStockEsYElEstadoEs)
	ctx.Step(`^la operación se rechaza por stock insuficiente$`, func() error { return f.rechazadaPor(domain.ErrInsufficientStock) })
	ctx.Step(`^la operación se rechaza por reversión inválida$`, func() error { return f.rechazadaPor(domain.ErrInvalidRevert) })
}

func TestLedgerFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeLedgerScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
