package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

// MovementUseCase adapta los requests HTTP de /movimientos al libro de stock.
type MovementUseCase struct {
	ledger *inventory.Ledger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(ledger *inventory.Ledger) *MovementUseCase {
	return &MovementUseCase{ledger: ledger}
}

// List lista movimientos filtrados, más recientes primero.
func (uc *MovementUseCase) List(ctx context.Context, in dto.MovementFilterRequest) ([]dto.MovementResponse, error) {
	filter, err := toMovementFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.ledger.Movements(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return items, nil
}

// GetByID obtiene un movimiento.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.ledger.Movement(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toMovementResponse(m)
	return &resp, nil
}

// Create registra una entrada o salida a nombre de actorID.
func (uc *MovementUseCase) Create(ctx context.Context, actorID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	res, err := uc.ledger.Record(ctx, inventory.RecordInput{
		Type:        entity.MovementType(strings.TrimSpace(in.Type)),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Notes:       in.Notes,
		ActorID:     actorID,
		Source:      entity.SourceMovement,
	})
	if err != nil {
		return nil, err
	}
	resp := toMovementResponse(res.Movement)
	resp.PreviousStock, resp.NewStock = &res.PreviousStock, &res.NewStock
	return &resp, nil
}

// Delete elimina el movimiento revirtiendo su efecto sobre el stock.
func (uc *MovementUseCase) Delete(ctx context.Context, id string) (*dto.RevertMovementResponse, error) {
	res, err := uc.ledger.Revert(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RevertMovementResponse{
		MovementID:    res.Movement.ID,
		ProductID:     res.Movement.ProductID,
		RevertedStock: res.RevertedStock,
	}, nil
}

// Statistics totales del periodo (fechaInicio/fechaFin opcionales).
func (uc *MovementUseCase) Statistics(ctx context.Context, in dto.MovementFilterRequest) (*dto.StatisticsResponse, error) {
	filter, err := toMovementFilter(in)
	if err != nil {
		return nil, err
	}
	st, err := uc.ledger.Statistics(ctx, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	resp := &dto.StatisticsResponse{
		Summary:     toTotals(st.Summary),
		ByProduct:   make([]dto.MovementTotals, 0, len(st.ByProduct)),
		ByWarehouse: make([]dto.MovementTotals, 0, len(st.ByWarehouse)),
	}
	for _, a := range st.ByProduct {
		resp.ByProduct = append(resp.ByProduct, toTotals(a))
	}
	for _, a := range st.ByWarehouse {
		resp.ByWarehouse = append(resp.ByWarehouse, toTotals(a))
	}
	return resp, nil
}

func toMovementFilter(in dto.MovementFilterRequest) (repository.MovementFilter, error) {
	from, err := parseDate(in.From, false)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	to, err := parseDate(in.To, true)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	return repository.MovementFilter{
		Type:        in.Type,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		From:        from,
		To:          to,
	}, nil
}

// parseDate acepta YYYY-MM-DD o RFC3339. Con endOfDay una fecha sin hora cubre el día completo.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, domain.NewError(domain.ErrInvalidInput, "Fecha inválida: "+s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
