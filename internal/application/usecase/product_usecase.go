package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ayuda-humanitaria-api/internal/domain/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos. Todo cambio de stock pasa por el libro (Ledger).
type ProductUseCase struct {
	txRunner           inventory.TxRunner
	ledger             *inventory.Ledger
	productRepo        repository.ProductRepository
	categoryRepo       repository.CategoryRepository
	unitRepo           repository.UnitRepository
	movRepo            repository.MovementRepository
	defaultWarehouseID string
}

// NewProductUseCase construye el caso de uso. defaultWarehouseID puede ser vacío.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
	movRepo repository.MovementRepository,
	defaultWarehouseID string,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:           txRunner,
		ledger:             ledger,
		productRepo:        productRepo,
		categoryRepo:       categoryRepo,
		unitRepo:           unitRepo,
		movRepo:            movRepo,
		defaultWarehouseID: defaultWarehouseID,
	}
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) ([]dto.ProductResponse, *dto.Pagination, error) {
	in.DefaultPage()
	list, total, err := uc.productRepo.List(ctx, repository.ProductFilter{
		IncludeInactive: in.IncludeInactive,
		CategoryID:      in.CategoryID,
		Search:          strings.TrimSpace(in.Search),
		Page:            repository.Page{Limit: in.Limit, Offset: in.Offset()},
	})
	if err != nil {
		return nil, nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToProductResponse(p))
	}
	return items, dto.NewPagination(in.PageRequest, total), nil
}

// GetByID obtiene un producto con el número de movimientos.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := uc.movRepo.CountByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	resp.MovementsCount = &count
	return &resp, nil
}

// Create crea el producto con stock 0 y, si StockActual > 0, registra el movimiento "inicial" en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "codigo y nombre son obligatorios")
	}
	if in.StockMin < 0 || in.StockActual < 0 {
		return nil, domain.NewError(domain.ErrInvalidInput, "stockMinimo y stockActual no pueden ser negativos")
	}
	if err := uc.ensureUniqueCode(ctx, in.Code, ""); err != nil {
		return nil, err
	}
	if err := uc.ensureCatalog(ctx, in.CategoryID, in.UnitID); err != nil {
		return nil, err
	}

	warehouseID := in.WarehouseID
	if in.StockActual > 0 {
		if warehouseID == "" {
			warehouseID = uc.defaultWarehouseID
		}
		if warehouseID == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "bodegaId es obligatorio para registrar el stock inicial")
		}
		if err := uc.ledger.EnsureWarehouse(ctx, warehouseID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		UnitID:      in.UnitID,
		StockMin:    in.StockMin,
		Perishable:  in.Perishable,
		ExpiresAt:   in.ExpiresAt,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.StockActual == 0 {
			return nil
		}
		_, err := uc.ledger.RecordInTx(ctx, productRepo, movRepo, inventory.RecordInput{
			Type:        entity.MovementIn,
			ProductID:   product.ID,
			WarehouseID: warehouseID,
			Quantity:    in.StockActual,
			Notes:       "Stock inicial",
			ActorID:     actorID,
			Source:      entity.SourceOpening,
		})
		return err
	})
	if err != nil {
		return nil, duplicateCode(err)
	}
	return uc.GetByID(ctx, product.ID)
}

// Update actualiza datos del producto. Un nuevo stockActual se registra como movimiento "edicion".
func (uc *ProductUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "codigo no puede ser vacío")
		}
		if code != p.Code {
			if err := uc.ensureUniqueCode(ctx, code, p.ID); err != nil {
				return nil, err
			}
		}
		p.Code = code
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "nombre no puede ser vacío")
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.UnitID != nil {
		p.UnitID = *in.UnitID
	}
	if in.CategoryID != nil || in.UnitID != nil {
		if err := uc.ensureCatalog(ctx, p.CategoryID, p.UnitID); err != nil {
			return nil, err
		}
	}
	if in.StockMin != nil {
		if *in.StockMin < 0 {
			return nil, domain.NewError(domain.ErrInvalidInput, "stockMinimo no puede ser negativo")
		}
		p.StockMin = *in.StockMin
	}
	if in.Perishable != nil {
		p.Perishable = *in.Perishable
	}
	if in.ExpiresAt != nil {
		p.ExpiresAt = in.ExpiresAt
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = time.Now()

	stockChange := in.StockActual != nil && *in.StockActual != p.StockActual
	if stockChange {
		if *in.StockActual < 0 {
			return nil, domain.NewError(domain.ErrInvalidInput, "stockActual no puede ser negativo")
		}
		if in.WarehouseID == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "bodegaId es obligatorio para modificar el stock")
		}
		if err := uc.ledger.EnsureWarehouse(ctx, in.WarehouseID); err != nil {
			return nil, err
		}
	}

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		if !stockChange {
			return nil
		}
		locked, err := productRepo.GetByIDForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NewError(domain.ErrNotFound, "Producto no encontrado")
		}
		delta := *in.StockActual - locked.StockActual
		if delta == 0 {
			return nil
		}
		typ, qty := entity.MovementIn, delta
		if delta < 0 {
			typ, qty = entity.MovementOut, -delta
		}
		_, err = uc.ledger.RecordInTx(ctx, productRepo, movRepo, inventory.RecordInput{
			Type:        typ,
			ProductID:   p.ID,
			WarehouseID: in.WarehouseID,
			Quantity:    qty,
			Notes:       "Edición de stock",
			ActorID:     actorID,
			Source:      entity.SourceEdit,
		})
		return err
	})
	if err != nil {
		return nil, duplicateCode(err)
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina el producto si no tiene movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	count, err := uc.movRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewError(domain.ErrConflict, "No se puede eliminar un producto con movimientos asociados")
	}
	if err := uc.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewError(domain.ErrConflict, "No se puede eliminar un producto con movimientos asociados")
		}
		return err
	}
	return nil
}

// ToggleActive invierte el estado activo del producto.
func (uc *ProductUseCase) ToggleActive(ctx context.Context, id string) (*dto.ToggleActiveResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.productRepo.SetActive(ctx, id, !p.Active); err != nil {
		return nil, err
	}
	return &dto.ToggleActiveResponse{ID: id, Active: !p.Active}, nil
}

// AdjustStock ajuste manual (entrada/salida) vía el libro.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, actorID, id string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	res, err := uc.ledger.Adjust(ctx, inventory.AdjustInput{
		ProductID:   id,
		Type:        entity.MovementType(in.Type),
		Quantity:    in.Quantity,
		WarehouseID: in.WarehouseID,
		Notes:       in.Notes,
		ActorID:     actorID,
	})
	if err != nil {
		return nil, err
	}
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	mov := toMovementResponse(res.Movement)
	mov.PreviousStock, mov.NewStock = &res.PreviousStock, &res.NewStock
	return &dto.AdjustStockResponse{
		StockActual: res.NewStock,
		StockStatus: string(domaininv.ComputeStockStatus(res.NewStock, p.StockMin)),
		Movement:    mov,
	}, nil
}

// VerifyStock compara stock_actual con la suma del libro.
func (uc *ProductUseCase) VerifyStock(ctx context.Context, id string) (*dto.StockVerificationResponse, error) {
	check, err := uc.ledger.VerifyStock(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.StockVerificationResponse{
		ProductID:   check.ProductID,
		StockActual: check.StockActual,
		StockLedger: check.StockLedger,
		Consistent:  check.Consistent(),
	}, nil
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Producto no encontrado")
	}
	return p, nil
}

func (uc *ProductUseCase) ensureUniqueCode(ctx context.Context, code, selfID string) error {
	existing, err := uc.productRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewError(domain.ErrDuplicate, "Ya existe un producto con ese código")
	}
	return nil
}

func (uc *ProductUseCase) ensureCatalog(ctx context.Context, categoryID, unitID string) error {
	if categoryID == "" || unitID == "" {
		return domain.NewError(domain.ErrInvalidInput, "categoriaId y unidadMedidaId son obligatorios")
	}
	c, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NewError(domain.ErrInvalidInput, "Categoría no encontrada")
	}
	u, err := uc.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NewError(domain.ErrInvalidInput, "Unidad de medida no encontrada")
	}
	return nil
}

func duplicateCode(err error) error {
	return duplicateAs(err, "Ya existe un producto con ese código")
}
