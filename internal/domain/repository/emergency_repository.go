package repository

import (
	"context"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// DisasterTypeRepository puerto de persistencia para tipos de desastre.
type DisasterTypeRepository interface {
	Create(ctx context.Context, d *entity.DisasterType) error
	GetByID(ctx context.Context, id string) (*entity.DisasterType, error)
	GetByCode(ctx context.Context, code string) (*entity.DisasterType, error)
	Update(ctx context.Context, d *entity.DisasterType) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, includeInactive bool) ([]*entity.DisasterType, error)
	Delete(ctx context.Context, id string) error
}

// EmergencyEventRepository puerto de persistencia para eventos de emergencia.
// List sin includeInactive devuelve solo eventos en estado activo, más recientes primero.
type EmergencyEventRepository interface {
	Create(ctx context.Context, e *entity.EmergencyEvent) error
	GetByID(ctx context.Context, id string) (*entity.EmergencyEvent, error)
	Update(ctx context.Context, e *entity.EmergencyEvent) error
	List(ctx context.Context, includeInactive bool) ([]*entity.EmergencyEvent, error)
	Delete(ctx context.Context, id string) error
}

// AffectedZoneRepository puerto de persistencia para zonas afectadas.
type AffectedZoneRepository interface {
	Create(ctx context.Context, z *entity.AffectedZone) error
	GetByID(ctx context.Context, id string) (*entity.AffectedZone, error)
	Update(ctx context.Context, z *entity.AffectedZone) error
	// List filtra por evento cuando eventID no es vacío.
	List(ctx context.Context, eventID string) ([]*entity.AffectedZone, error)
	Delete(ctx context.Context, id string) error
}
