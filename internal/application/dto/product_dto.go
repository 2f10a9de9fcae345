package dto

import "time"

// ProductFilterRequest query de GET /productos.
type ProductFilterRequest struct {
	IncludeInactive bool   `query:"includeInactive"`
	CategoryID      string `query:"categoriaId"`
	Search          string `query:"search"`
	PageRequest
}

// CreateProductRequest entrada para crear un producto.
// StockActual > 0 genera un movimiento "inicial" en BodegaID (o la bodega por defecto configurada).
type CreateProductRequest struct {
	Code        string     `json:"codigo"`
	Name        string     `json:"nombre"`
	Description string     `json:"descripcion"`
	CategoryID  string     `json:"categoriaId"`
	UnitID      string     `json:"unidadMedidaId"`
	StockMin    int64      `json:"stockMinimo"`
	StockActual int64      `json:"stockActual"`
	Perishable  bool       `json:"perecedero"`
	ExpiresAt   *time.Time `json:"fechaVencimiento"`
	WarehouseID string     `json:"bodegaId"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// Un cambio de StockActual se registra como movimiento "edicion" y requiere WarehouseID.
type UpdateProductRequest struct {
	Code        *string    `json:"codigo"`
	Name        *string    `json:"nombre"`
	Description *string    `json:"descripcion"`
	CategoryID  *string    `json:"categoriaId"`
	UnitID      *string    `json:"unidadMedidaId"`
	StockMin    *int64     `json:"stockMinimo"`
	StockActual *int64     `json:"stockActual"`
	Perishable  *bool      `json:"perecedero"`
	ExpiresAt   *time.Time `json:"fechaVencimiento"`
	Active      *bool      `json:"activo"`
	WarehouseID string     `json:"bodegaId"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string            `json:"id"`
	Code           string            `json:"codigo"`
	Name           string            `json:"nombre"`
	Description    string            `json:"descripcion,omitempty"`
	CategoryID     string            `json:"categoriaId"`
	UnitID         string            `json:"unidadMedidaId"`
	Category       *CategoryResponse `json:"categoria,omitempty"`
	Unit           *UnitResponse     `json:"unidadMedida,omitempty"`
	StockMin       int64             `json:"stockMinimo"`
	StockActual    int64             `json:"stockActual"`
	Perishable     bool              `json:"perecedero"`
	ExpiresAt      *time.Time        `json:"fechaVencimiento,omitempty"`
	Active         bool              `json:"activo"`
	StockStatus    string            `json:"stockStatus"`
	MovementsCount *int64            `json:"movimientosCount,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// AdjustStockRequest cuerpo de POST /productos/:id/adjust-stock.
type AdjustStockRequest struct {
	Quantity    int64  `json:"cantidad"`
	Type        string `json:"tipo"`
	WarehouseID string `json:"bodegaId"`
	Notes       string `json:"observaciones"`
}

// AdjustStockResponse nuevo stock y movimiento generado.
type AdjustStockResponse struct {
	StockActual int64            `json:"stockActual"`
	StockStatus string           `json:"stockStatus"`
	Movement    MovementResponse `json:"movimiento"`
}

// ToggleActiveResponse resultado de activar/desactivar.
type ToggleActiveResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"activo"`
}
