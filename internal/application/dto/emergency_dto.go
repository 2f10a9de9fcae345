package dto

import "time"

// CreateDisasterTypeRequest entrada para crear un tipo de desastre.
type CreateDisasterTypeRequest struct {
	Code        string `json:"codigo"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// UpdateDisasterTypeRequest entrada para actualizar un tipo de desastre.
type UpdateDisasterTypeRequest struct {
	Code        *string `json:"codigo"`
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Active      *bool   `json:"activo"`
}

// DisasterTypeResponse salida de un tipo de desastre.
type DisasterTypeResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"codigo"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Active      bool      `json:"activo"`
	EventsCount int64     `json:"eventosCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateEventRequest entrada para crear un evento de emergencia.
// Fechas en YYYY-MM-DD o RFC3339.
type CreateEventRequest struct {
	Name           string `json:"nombre"`
	DisasterTypeID string `json:"tipoDesastreId"`
	StartDate      string `json:"fechaInicio"`
	EndDate        string `json:"fechaFin"`
	Department     string `json:"departamento"`
	Municipality   string `json:"municipio"`
	Description    string `json:"descripcion"`
}

// UpdateEventRequest entrada para actualizar un evento de emergencia.
type UpdateEventRequest struct {
	Name           *string `json:"nombre"`
	DisasterTypeID *string `json:"tipoDesastreId"`
	StartDate      *string `json:"fechaInicio"`
	EndDate        *string `json:"fechaFin"`
	Department     *string `json:"departamento"`
	Municipality   *string `json:"municipio"`
	Status         *string `json:"estado"`
	Description    *string `json:"descripcion"`
}

// DisasterTypeRef resumen del tipo de desastre dentro de un evento.
type DisasterTypeRef struct {
	ID   string `json:"id"`
	Code string `json:"codigo"`
	Name string `json:"nombre"`
}

// EventResponse salida de un evento de emergencia.
type EventResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"nombre"`
	DisasterTypeID string           `json:"tipoDesastreId"`
	DisasterType   *DisasterTypeRef `json:"tipoDesastre,omitempty"`
	StartDate      time.Time        `json:"fechaInicio"`
	EndDate        *time.Time       `json:"fechaFin"`
	Department     string           `json:"departamento"`
	Municipality   string           `json:"municipio"`
	Status         string           `json:"estado"`
	Description    string           `json:"descripcion"`
	ZonesCount     int64            `json:"zonasCount"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ZoneFilter filtros de GET /zonas.
type ZoneFilter struct {
	EventID string `query:"eventoId"`
}

// CreateZoneRequest entrada para crear una zona afectada.
type CreateZoneRequest struct {
	Name                string `json:"nombre"`
	EventID             string `json:"eventoEmergenciaId"`
	Coordinates         string `json:"coordenadas"`
	ImpactLevel         string `json:"nivelAfectacion"`
	EstimatedPopulation *int64 `json:"poblacionEstimada"`
	Description         string `json:"descripcion"`
}

// UpdateZoneRequest entrada para actualizar una zona afectada. El evento no se reasigna.
type UpdateZoneRequest struct {
	Name                *string `json:"nombre"`
	Coordinates         *string `json:"coordenadas"`
	ImpactLevel         *string `json:"nivelAfectacion"`
	EstimatedPopulation *int64  `json:"poblacionEstimada"`
	Description         *string `json:"descripcion"`
}

// EventRef resumen del evento dentro de una zona.
type EventRef struct {
	ID     string `json:"id"`
	Name   string `json:"nombre"`
	Status string `json:"estado"`
}

// ZoneResponse salida de una zona afectada.
type ZoneResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"nombre"`
	EventID             string    `json:"eventoEmergenciaId"`
	Event               *EventRef `json:"eventoEmergencia,omitempty"`
	Coordinates         string    `json:"coordenadas"`
	ImpactLevel         string    `json:"nivelAfectacion"`
	EstimatedPopulation *int64    `json:"poblacionEstimada"`
	Description         string    `json:"descripcion"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
