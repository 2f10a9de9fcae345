package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

const (
	msgDisasterTypeNotFound  = "Tipo de desastre no encontrado"
	msgDisasterTypeDuplicate = "Ya existe un tipo de desastre con ese código"
	msgDisasterTypeInUse     = "No se puede eliminar un tipo de desastre con eventos asociados"
)

// DisasterTypeUseCase catálogo de tipos de desastre.
type DisasterTypeUseCase struct {
	repo repository.DisasterTypeRepository
}

func NewDisasterTypeUseCase(repo repository.DisasterTypeRepository) *DisasterTypeUseCase {
	return &DisasterTypeUseCase{repo: repo}
}

// List lista tipos de desastre con su número de eventos.
func (uc *DisasterTypeUseCase) List(ctx context.Context, includeInactive bool) ([]dto.DisasterTypeResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DisasterTypeResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDisasterTypeResponse(d))
	}
	return out, nil
}

func (uc *DisasterTypeUseCase) GetByID(ctx context.Context, id string) (*dto.DisasterTypeResponse, error) {
	d, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toDisasterTypeResponse(d)
	return &resp, nil
}

func (uc *DisasterTypeUseCase) Create(ctx context.Context, in dto.CreateDisasterTypeRequest) (*dto.DisasterTypeResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "codigo y nombre son obligatorios")
	}
	if err := uc.ensureUniqueCode(ctx, in.Code); err != nil {
		return nil, err
	}
	now := time.Now()
	d := &entity.DisasterType{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, duplicateAs(err, msgDisasterTypeDuplicate)
	}
	resp := toDisasterTypeResponse(d)
	return &resp, nil
}

func (uc *DisasterTypeUseCase) Update(ctx context.Context, id string, in dto.UpdateDisasterTypeRequest) (*dto.DisasterTypeResponse, error) {
	d, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "codigo no puede ser vacío")
		}
		if code != d.Code {
			if err := uc.ensureUniqueCode(ctx, code); err != nil {
				return nil, err
			}
		}
		d.Code = code
	}
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.Active != nil {
		d.Active = *in.Active
	}
	d.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, duplicateAs(err, msgDisasterTypeDuplicate)
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina el tipo si ningún evento lo referencia.
func (uc *DisasterTypeUseCase) Delete(ctx context.Context, id string) error {
	d, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if d.EventsCount > 0 {
		return domain.NewError(domain.ErrConflict, msgDisasterTypeInUse)
	}
	return conflictAs(uc.repo.Delete(ctx, id), msgDisasterTypeInUse)
}

func (uc *DisasterTypeUseCase) ToggleActive(ctx context.Context, id string) (*dto.ToggleActiveResponse, error) {
	d, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetActive(ctx, id, !d.Active); err != nil {
		return nil, err
	}
	return &dto.ToggleActiveResponse{ID: id, Active: !d.Active}, nil
}

func (uc *DisasterTypeUseCase) load(ctx context.Context, id string) (*entity.DisasterType, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NewError(domain.ErrNotFound, msgDisasterTypeNotFound)
	}
	return d, nil
}

func (uc *DisasterTypeUseCase) ensureUniqueCode(ctx context.Context, code string) error {
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.NewError(domain.ErrDuplicate, msgDisasterTypeDuplicate)
	}
	return nil
}
