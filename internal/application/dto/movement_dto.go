package dto

import "time"

// CreateMovementRequest cuerpo de POST /movimientos.
type CreateMovementRequest struct {
	Type        string `json:"tipo"`
	ProductID   string `json:"productoId"`
	WarehouseID string `json:"bodegaId"`
	Quantity    int64  `json:"cantidad"`
	Notes       string `json:"observaciones"`
}

// MovementFilterRequest query de GET /movimientos y /movimientos/estadisticas.
// Fechas en formato YYYY-MM-DD o RFC3339.
type MovementFilterRequest struct {
	Type        string `query:"tipo"`
	ProductID   string `query:"productoId"`
	WarehouseID string `query:"bodegaId"`
	From        string `query:"fechaInicio"`
	To          string `query:"fechaFin"`
}

// ActorSummary usuario que registró el movimiento.
type ActorSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
}

// MovementResponse salida de un movimiento. PreviousStock/NewStock solo al crearlo.
type MovementResponse struct {
	ID            string             `json:"id"`
	Type          string             `json:"tipo"`
	ProductID     string             `json:"productoId"`
	WarehouseID   string             `json:"bodegaId"`
	Quantity      int64              `json:"cantidad"`
	Date          time.Time          `json:"fecha"`
	Notes         string             `json:"observaciones,omitempty"`
	Source        string             `json:"origen"`
	RecordedByID  string             `json:"registradoPorId"`
	Product       *ProductResponse   `json:"producto,omitempty"`
	Warehouse     *WarehouseResponse `json:"bodega,omitempty"`
	RecordedBy    *ActorSummary      `json:"registradoPor,omitempty"`
	PreviousStock *int64             `json:"stockAnterior,omitempty"`
	NewStock      *int64             `json:"stockNuevo,omitempty"`
}

// RevertMovementResponse resultado de DELETE /movimientos/:id.
type RevertMovementResponse struct {
	MovementID    string `json:"movimientoId"`
	ProductID     string `json:"productoId"`
	RevertedStock int64  `json:"stockActual"`
}

// MovementTotals totales de entradas y salidas de un grupo.
type MovementTotals struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"nombre,omitempty"`
	TotalEntradas  int64  `json:"totalEntradas"`
	TotalSalidas   int64  `json:"totalSalidas"`
	TotalCantidad  int64  `json:"totalCantidad"`
	TotalMovements int64  `json:"totalMovimientos"`
}

// StatisticsResponse respuesta de GET /movimientos/estadisticas.
type StatisticsResponse struct {
	Summary     MovementTotals   `json:"resumen"`
	ByProduct   []MovementTotals `json:"porProducto"`
	ByWarehouse []MovementTotals `json:"porBodega"`
}

// StockVerificationResponse compara stock_actual con la suma del libro.
type StockVerificationResponse struct {
	ProductID   string `json:"productoId"`
	StockActual int64  `json:"stockActual"`
	StockLedger int64  `json:"stockLedger"`
	Consistent  bool   `json:"consistente"`
}
