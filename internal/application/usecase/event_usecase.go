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
	msgEventNotFound = "Evento de emergencia no encontrado"
	msgEventInUse    = "No se puede eliminar un evento con zonas asociadas"
	msgEventDates    = "La fecha de fin no puede ser anterior a la fecha de inicio"
)

// EventUseCase ciclo de vida de los eventos de emergencia: activo, suspendido, cerrado.
type EventUseCase struct {
	repo  repository.EmergencyEventRepository
	types repository.DisasterTypeRepository
	now   func() time.Time
}

func NewEventUseCase(repo repository.EmergencyEventRepository, types repository.DisasterTypeRepository) *EventUseCase {
	return &EventUseCase{repo: repo, types: types, now: time.Now}
}

// List sin includeInactive devuelve solo eventos activos, más recientes primero.
func (uc *EventUseCase) List(ctx context.Context, includeInactive bool) ([]dto.EventResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEventResponse(e))
	}
	return out, nil
}

func (uc *EventUseCase) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	e, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(e)
	return &resp, nil
}

// Create registra un evento en estado activo.
func (uc *EventUseCase) Create(ctx context.Context, in dto.CreateEventRequest) (*dto.EventResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.DisasterTypeID) == "" || strings.TrimSpace(in.StartDate) == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "nombre, tipoDesastreId y fechaInicio son obligatorios")
	}
	if err := uc.ensureDisasterType(ctx, in.DisasterTypeID); err != nil {
		return nil, err
	}
	start, err := parseDate(in.StartDate, false)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(in.EndDate, false)
	if err != nil {
		return nil, err
	}
	if end != nil && end.Before(*start) {
		return nil, domain.NewError(domain.ErrInvalidInput, msgEventDates)
	}
	now := uc.now()
	e := &entity.EmergencyEvent{
		ID:             uuid.New().String(),
		Name:           in.Name,
		DisasterTypeID: in.DisasterTypeID,
		StartDate:      *start,
		EndDate:        end,
		Department:     strings.TrimSpace(in.Department),
		Municipality:   strings.TrimSpace(in.Municipality),
		Status:         entity.EventActive,
		Description:    in.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, e.ID)
}

// Update modifica datos y estado. Un fechaFin vacío reabre el rango.
func (uc *EventUseCase) Update(ctx context.Context, id string, in dto.UpdateEventRequest) (*dto.EventResponse, error) {
	e, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewError(domain.ErrInvalidInput, "nombre no puede ser vacío")
		}
		e.Name = name
	}
	if in.DisasterTypeID != nil && *in.DisasterTypeID != e.DisasterTypeID {
		if err := uc.ensureDisasterType(ctx, *in.DisasterTypeID); err != nil {
			return nil, err
		}
		e.DisasterTypeID = *in.DisasterTypeID
	}
	if in.StartDate != nil {
		start, err := parseDate(*in.StartDate, false)
		if err != nil {
			return nil, err
		}
		if start == nil {
			return nil, domain.NewError(domain.ErrInvalidInput, "fechaInicio no puede ser vacía")
		}
		e.StartDate = *start
	}
	if in.EndDate != nil {
		end, err := parseDate(*in.EndDate, false)
		if err != nil {
			return nil, err
		}
		e.EndDate = end
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return nil, domain.NewError(domain.ErrInvalidInput, msgEventDates)
	}
	if in.Department != nil {
		e.Department = strings.TrimSpace(*in.Department)
	}
	if in.Municipality != nil {
		e.Municipality = strings.TrimSpace(*in.Municipality)
	}
	if in.Status != nil {
		status := entity.EventStatus(strings.ToLower(strings.TrimSpace(*in.Status)))
		if !status.Valid() {
			return nil, domain.NewError(domain.ErrInvalidInput, "estado inválido: use activo, cerrado o suspendido")
		}
		e.Status = status
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	e.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina el evento si no tiene zonas.
func (uc *EventUseCase) Delete(ctx context.Context, id string) error {
	e, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if e.ZonesCount > 0 {
		return domain.NewError(domain.ErrConflict, msgEventInUse)
	}
	return conflictAs(uc.repo.Delete(ctx, id), msgEventInUse)
}

// Close pasa el evento a cerrado con fechaFin = ahora. Nunca antes de fechaInicio.
func (uc *EventUseCase) Close(ctx context.Context, id string) (*dto.EventResponse, error) {
	e, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.IsClosed() {
		return nil, domain.NewError(domain.ErrInvalidInput, "El evento ya está cerrado")
	}
	now := uc.now()
	end := now
	if end.Before(e.StartDate) {
		end = e.StartDate
	}
	e.Status = entity.EventClosed
	e.EndDate = &end
	e.UpdatedAt = now
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func (uc *EventUseCase) load(ctx context.Context, id string) (*entity.EmergencyEvent, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NewError(domain.ErrNotFound, msgEventNotFound)
	}
	return e, nil
}

func (uc *EventUseCase) ensureDisasterType(ctx context.Context, id string) error {
	d, err := uc.types.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.NewError(domain.ErrInvalidInput, msgDisasterTypeNotFound)
	}
	return nil
}
