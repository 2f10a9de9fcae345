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

// ZoneUseCase zonas afectadas. Un evento cerrado no admite zonas nuevas ni cambios.
type ZoneUseCase struct {
	repo   repository.AffectedZoneRepository
	events repository.EmergencyEventRepository
}

func NewZoneUseCase(repo repository.AffectedZoneRepository, events repository.EmergencyEventRepository) *ZoneUseCase {
	return &ZoneUseCase{repo: repo, events: events}
}

// List lista zonas, filtradas por evento si f.EventID no es vacío.
func (uc *ZoneUseCase) List(ctx context.Context, f dto.ZoneFilter) ([]dto.ZoneResponse, error) {
	list, err := uc.repo.List(ctx, strings.TrimSpace(f.EventID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ZoneResponse, 0, len(list))
	for _, z := range list {
		out = append(out, toZoneResponse(z))
	}
	return out, nil
}

func (uc *ZoneUseCase) GetByID(ctx context.Context, id string) (*dto.ZoneResponse, error) {
	z, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toZoneResponse(z)
	return &resp, nil
}

func (uc *ZoneUseCase) Create(ctx context.Context, in dto.CreateZoneRequest) (*dto.ZoneResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.EventID) == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "nombre y eventoEmergenciaId son obligatorios")
	}
	level, err := parseImpactLevel(in.ImpactLevel)
	if err != nil {
		return nil, err
	}
	if err := validatePopulation(in.EstimatedPopulation); err != nil {
		return nil, err
	}
	ev, err := uc.events.GetByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, domain.NewError(domain.ErrInvalidInput, msgEventNotFound)
	}
	if ev.IsClosed() {
		return nil, domain.NewError(domain.ErrInvalidInput, "No se pueden agregar zonas a un evento cerrado")
	}
	now := time.Now()
	z := &entity.AffectedZone{
		ID:                  uuid.New().String(),
		Name:                in.Name,
		EventID:             ev.ID,
		Coordinates:         strings.TrimSpace(in.Coordinates),
		ImpactLevel:         level,
		EstimatedPopulation: in.EstimatedPopulation,
		Description:         in.Description,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(ctx, z); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, z.ID)
}

func (uc *ZoneUseCase) Update(ctx context.Context, id string, in dto.UpdateZoneRequest) (*dto.ZoneResponse, error) {
	z, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if z.Event != nil && z.Event.IsClosed() {
		return nil, domain.NewError(domain.ErrInvalidInput, "No se puede modificar una zona de un evento cerrado")
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "nombre no puede ser vacío")
		}
		z.Name = name
	}
	if in.Coordinates != nil {
		z.Coordinates = strings.TrimSpace(*in.Coordinates)
	}
	if in.ImpactLevel != nil {
		level, err := parseImpactLevel(*in.ImpactLevel)
		if err != nil {
			return nil, err
		}
		z.ImpactLevel = level
	}
	if in.EstimatedPopulation != nil {
		if err := validatePopulation(in.EstimatedPopulation); err != nil {
			return nil, err
		}
		z.EstimatedPopulation = in.EstimatedPopulation
	}
	if in.Description != nil {
		z.Description = *in.Description
	}
	z.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, z); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func (uc *ZoneUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ZoneUseCase) load(ctx context.Context, id string) (*entity.AffectedZone, error) {
	z, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if z == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Zona afectada no encontrada")
	}
	return z, nil
}

func parseImpactLevel(s string) (entity.ImpactLevel, error) {
	level := entity.ImpactLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.Valid() {
		return "", domain.NewError(domain.ErrInvalidInput, "nivelAfectacion debe ser alto, medio o bajo")
	}
	return level, nil
}

func validatePopulation(p *int64) error {
	if p != nil && *p < 0 {
		return domain.NewError(domain.ErrInvalidInput, "poblacionEstimada no puede ser negativa")
	}
	return nil
}
