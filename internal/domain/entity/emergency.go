package entity

import "time"

// EventStatus estado de un evento de emergencia.
type EventStatus string

const (
	EventActive    EventStatus = "activo"
	EventClosed    EventStatus = "cerrado"
	EventSuspended EventStatus = "suspendido"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventActive, EventClosed, EventSuspended:
		return true
	}
	return false
}

// ImpactLevel nivel de afectación de una zona.
type ImpactLevel string

const (
	ImpactHigh   ImpactLevel = "alto"
	ImpactMedium ImpactLevel = "medio"
	ImpactLow    ImpactLevel = "bajo"
)

func (l ImpactLevel) Valid() bool {
	switch l {
	case ImpactHigh, ImpactMedium, ImpactLow:
		return true
	}
	return false
}

// DisasterType tipo de desastre (INUNDACION, TERREMOTO, ...).
type DisasterType struct {
	ID          string
	Code        string
	Name        string
	Description string
	Active      bool
	EventsCount int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmergencyEvent evento de emergencia atendido por la operación.
// DisasterType se carga en lecturas; EndDate nil mientras el evento sigue abierto.
type EmergencyEvent struct {
	ID             string
	Name           string
	DisasterTypeID string
	DisasterType   *DisasterType
	StartDate      time.Time
	EndDate        *time.Time
	Department     string
	Municipality   string
	Status         EventStatus
	Description    string
	ZonesCount     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsClosed indica si el evento ya no admite cambios en sus zonas.
func (e *EmergencyEvent) IsClosed() bool {
	return e.Status == EventClosed
}

// AffectedZone zona afectada dentro de un evento.
type AffectedZone struct {
	ID                  string
	Name                string
	EventID             string
	Event               *EmergencyEvent
	Coordinates         string
	ImpactLevel         ImpactLevel
	EstimatedPopulation *int64
	Description         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
