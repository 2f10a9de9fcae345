package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

const (
	msgCategoryNotFound  = "Categoría no encontrada"
	msgCategoryDuplicate = "Ya existe una categoría con ese código"
	msgCategoryInUse     = "No se puede eliminar una categoría con productos asociados"
	msgUnitNotFound      = "Unidad de medida no encontrada"
	msgUnitDuplicate     = "Ya existe una unidad de medida con ese código"
	msgUnitInUse         = "No se puede eliminar una unidad de medida con productos asociados"
)

// CatalogUseCase configuración de categorías y unidades de medida.
type CatalogUseCase struct {
	categories repository.CategoryRepository
	units      repository.UnitRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(categories repository.CategoryRepository, units repository.UnitRepository) *CatalogUseCase {
	return &CatalogUseCase{categories: categories, units: units}
}

// Categories lista categorías con su número de productos.
func (uc *CatalogUseCase) Categories(ctx context.Context, includeInactive bool) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func (uc *CatalogUseCase) GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// CreateCategory crea una categoría con código único.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "codigo y nombre son obligatorios")
	}
	existing, err := uc.categories.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewError(domain.ErrDuplicate, msgCategoryDuplicate)
	}
	c := &entity.Category{ID: uuid.New().String(), Code: in.Code, Name: in.Name, Description: in.Description, Active: true}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, duplicateAs(err, msgCategoryDuplicate)
	}
	return toCategoryResponse(c), nil
}

func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "codigo no puede ser vacío")
		}
		if code != c.Code {
			existing, err := uc.categories.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.NewError(domain.ErrDuplicate, msgCategoryDuplicate)
			}
		}
		c.Code = code
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := uc.categories.Update(ctx, c); err != nil {
		return nil, duplicateAs(err, msgCategoryDuplicate)
	}
	return uc.GetCategory(ctx, id)
}

// DeleteCategory elimina la categoría si ningún producto la usa.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id string) error {
	c, err := uc.loadCategory(ctx, id)
	if err != nil {
		return err
	}
	if c.ProductsCount > 0 {
		return domain.NewError(domain.ErrConflict, msgCategoryInUse)
	}
	return conflictAs(uc.categories.Delete(ctx, id), msgCategoryInUse)
}

func (uc *CatalogUseCase) ToggleCategory(ctx context.Context, id string) (*dto.ToggleActiveResponse, error) {
	c, err := uc.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.categories.SetActive(ctx, id, !c.Active); err != nil {
		return nil, err
	}
	return &dto.ToggleActiveResponse{ID: id, Active: !c.Active}, nil
}

// Units lista unidades de medida con su número de productos.
func (uc *CatalogUseCase) Units(ctx context.Context, includeInactive bool) ([]dto.UnitResponse, error) {
	list, err := uc.units.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUnitResponse(u))
	}
	return out, nil
}

func (uc *CatalogUseCase) GetUnit(ctx context.Context, id string) (*dto.UnitResponse, error) {
	u, err := uc.loadUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUnitResponse(u), nil
}

// CreateUnit crea una unidad con código único. Sin abreviatura se usa el código en minúsculas.
func (uc *CatalogUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Abbreviation = strings.TrimSpace(in.Abbreviation)
	if in.Code == "" || in.Name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "codigo y nombre son obligatorios")
	}
	if in.Abbreviation == "" {
		in.Abbreviation = strings.ToLower(in.Code)
	}
	existing, err := uc.units.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewError(domain.ErrDuplicate, msgUnitDuplicate)
	}
	u := &entity.Unit{ID: uuid.New().String(), Code: in.Code, Name: in.Name, Abbreviation: in.Abbreviation, Active: true}
	if err := uc.units.Create(ctx, u); err != nil {
		return nil, duplicateAs(err, msgUnitDuplicate)
	}
	return toUnitResponse(u), nil
}

func (uc *CatalogUseCase) UpdateUnit(ctx context.Context, id string, in dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	u, err := uc.loadUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "codigo no puede ser vacío")
		}
		if code != u.Code {
			existing, err := uc.units.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.NewError(domain.ErrDuplicate, msgUnitDuplicate)
			}
		}
		u.Code = code
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Abbreviation != nil {
		u.Abbreviation = strings.TrimSpace(*in.Abbreviation)
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if err := uc.units.Update(ctx, u); err != nil {
		return nil, duplicateAs(err, msgUnitDuplicate)
	}
	return uc.GetUnit(ctx, id)
}

// DeleteUnit elimina la unidad si ningún producto la usa.
func (uc *CatalogUseCase) DeleteUnit(ctx context.Context, id string) error {
	u, err := uc.loadUnit(ctx, id)
	if err != nil {
		return err
	}
	if u.ProductsCount > 0 {
		return domain.NewError(domain.ErrConflict, msgUnitInUse)
	}
	return conflictAs(uc.units.Delete(ctx, id), msgUnitInUse)
}

func (uc *CatalogUseCase) ToggleUnit(ctx context.Context, id string) (*dto.ToggleActiveResponse, error) {
	u, err := uc.loadUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.units.SetActive(ctx, id, !u.Active); err != nil {
		return nil, err
	}
	return &dto.ToggleActiveResponse{ID: id, Active: !u.Active}, nil
}

func (uc *CatalogUseCase) loadCategory(ctx context.Context, id string) (*entity.Category, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewError(domain.ErrNotFound, msgCategoryNotFound)
	}
	return c, nil
}

func (uc *CatalogUseCase) loadUnit(ctx context.Context, id string) (*entity.Unit, error) {
	u, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewError(domain.ErrNotFound, msgUnitNotFound)
	}
	return u, nil
}

// duplicateAs da mensaje a un ErrDuplicate desnudo del repositorio.
func duplicateAs(err error, msg string) error {
	var de *domain.Error
	if errors.Is(err, domain.ErrDuplicate) && !errors.As(err, &de) {
		return domain.NewError(domain.ErrDuplicate, msg)
	}
	return err
}

// conflictAs da mensaje a un ErrConflict del repositorio (FK violada entre la verificación y el borrado).
func conflictAs(err error, msg string) error {
	if errors.Is(err, domain.ErrConflict) {
		return domain.NewError(domain.ErrConflict, msg)
	}
	return err
}
