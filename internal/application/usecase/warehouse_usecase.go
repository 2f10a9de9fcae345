package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo    repository.WarehouseRepository
	movRepo repository.MovementRepository
	ledger  *inventory.Ledger
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, movRepo repository.MovementRepository, ledger *inventory.Ledger) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, movRepo: movRepo, ledger: ledger}
}

// List lista bodegas con número de movimientos y capacidad utilizada.
func (uc *WarehouseUseCase) List(ctx context.Context, includeInactive bool) ([]dto.WarehouseResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, w := range list {
		ids = append(ids, w.ID)
	}
	counts, err := uc.movRepo.CountByWarehouses(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, toWarehouseResponse(w, counts[w.ID]))
	}
	return items, nil
}

// GetByID obtiene una bodega.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := uc.movRepo.CountByWarehouses(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	resp := toWarehouseResponse(w, counts[id])
	return &resp, nil
}

// Create crea una nueva bodega con código único.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "codigo y nombre son obligatorios")
	}
	if in.Capacity != nil && *in.Capacity < 0 {
		return nil, domain.NewError(domain.ErrInvalidInput, "capacidad no puede ser negativa")
	}
	if err := uc.ensureUniqueCode(ctx, in.Code, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	w := &entity.Warehouse{
		ID:               uuid.New().String(),
		Code:             in.Code,
		Name:             in.Name,
		Address:          in.Address,
		Capacity:         in.Capacity,
		ResponsibleName:  in.ResponsibleName,
		ResponsibleEmail: in.ResponsibleEmail,
		ResponsiblePhone: in.ResponsiblePhone,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, duplicateWarehouse(err)
	}
	resp := toWarehouseResponse(w, 0)
	return &resp, nil
}

// Update actualiza una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "codigo no puede ser vacío")
		}
		if code != w.Code {
			if err := uc.ensureUniqueCode(ctx, code, w.ID); err != nil {
				return nil, err
			}
		}
		w.Code = code
	}
	if in.Name != nil {
		w.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		w.Address = *in.Address
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return nil, domain.NewError(domain.ErrInvalidInput, "capacidad no puede ser negativa")
		}
		w.Capacity = in.Capacity
	}
	if in.ResponsibleName != nil {
		w.ResponsibleName = *in.ResponsibleName
	}
	if in.ResponsibleEmail != nil {
		w.ResponsibleEmail = *in.ResponsibleEmail
	}
	if in.ResponsiblePhone != nil {
		w.ResponsiblePhone = *in.ResponsiblePhone
	}
	if in.Active != nil {
		w.Active = *in.Active
	}
	w.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, duplicateWarehouse(err)
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina la bodega si no tiene movimientos.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	counts, err := uc.movRepo.CountByWarehouses(ctx, []string{id})
	if err != nil {
		return err
	}
	if counts[id] > 0 {
		return domain.NewError(domain.ErrConflict, "No se puede eliminar una bodega con movimientos asociados")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewError(domain.ErrConflict, "No se puede eliminar una bodega con movimientos asociados")
		}
		return err
	}
	return nil
}

// ToggleActive invierte el estado activo de la bodega.
func (uc *WarehouseUseCase) ToggleActive(ctx context.Context, id string) (*dto.ToggleActiveResponse, error) {
	w, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetActive(ctx, id, !w.Active); err != nil {
		return nil, err
	}
	return &dto.ToggleActiveResponse{ID: id, Active: !w.Active}, nil
}

// Stock desglose de saldo por producto calculado desde el libro.
func (uc *WarehouseUseCase) Stock(ctx context.Context, id string) (*dto.WarehouseStockResponse, error) {
	ws, err := uc.ledger.StockByWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := uc.movRepo.CountByWarehouses(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	rows := make([]dto.WarehouseStockRow, 0, len(ws.Rows))
	for _, r := range ws.Rows {
		rows = append(rows, dto.WarehouseStockRow{
			Product:     ToProductResponse(r.Product),
			StockActual: r.Balance(),
			Entradas:    r.Entradas,
			Salidas:     r.Salidas,
		})
	}
	return &dto.WarehouseStockResponse{Warehouse: toWarehouseResponse(ws.Warehouse, counts[id]), Rows: rows}, nil
}

func (uc *WarehouseUseCase) load(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Bodega no encontrada")
	}
	return w, nil
}

func (uc *WarehouseUseCase) ensureUniqueCode(ctx context.Context, code, selfID string) error {
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewError(domain.ErrDuplicate, "Ya existe una bodega con ese código")
	}
	return nil
}

func duplicateWarehouse(err error) error {
	return duplicateAs(err, "Ya existe una bodega con ese código")
}

var hundred = decimal.NewFromInt(100)

// capacityUsed round(movimientos / capacidad * 100); nil sin capacidad definida.
func capacityUsed(movements int64, capacity *int64) *int64 {
	if capacity == nil || *capacity <= 0 {
		return nil
	}
	pct := decimal.NewFromInt(movements).Mul(hundred).Div(decimal.NewFromInt(*capacity)).Round(0).IntPart()
	return &pct
}
