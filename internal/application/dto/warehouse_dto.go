package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Code             string `json:"codigo"`
	Name             string `json:"nombre"`
	Address          string `json:"direccion"`
	Capacity         *int64 `json:"capacidad"`
	ResponsibleName  string `json:"responsableNombre"`
	ResponsibleEmail string `json:"responsableEmail"`
	ResponsiblePhone string `json:"responsableCelular"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Code             *string `json:"codigo"`
	Name             *string `json:"nombre"`
	Address          *string `json:"direccion"`
	Capacity         *int64  `json:"capacidad"`
	ResponsibleName  *string `json:"responsableNombre"`
	ResponsibleEmail *string `json:"responsableEmail"`
	ResponsiblePhone *string `json:"responsableCelular"`
	Active           *bool   `json:"activo"`
}

// WarehouseResponse salida de una bodega.
// CapacityUsed = round(movimientos / capacidad * 100), nil si no hay capacidad.
type WarehouseResponse struct {
	ID               string    `json:"id"`
	Code             string    `json:"codigo"`
	Name             string    `json:"nombre"`
	Address          string    `json:"direccion"`
	Capacity         *int64    `json:"capacidad"`
	ResponsibleName  string    `json:"responsableNombre"`
	ResponsibleEmail string    `json:"responsableEmail"`
	ResponsiblePhone string    `json:"responsableCelular"`
	Active           bool      `json:"activo"`
	MovementsCount   int64     `json:"movimientosCount"`
	CapacityUsed     *int64    `json:"capacidadUtilizada"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// WarehouseStockRow saldo de un producto dentro de una bodega.
type WarehouseStockRow struct {
	Product     ProductResponse `json:"producto"`
	StockActual int64           `json:"stockActual"`
	Entradas    int64           `json:"entradas"`
	Salidas     int64           `json:"salidas"`
}

// WarehouseStockResponse respuesta de GET /bodegas/:id/stock.
type WarehouseStockResponse struct {
	Warehouse WarehouseResponse   `json:"bodega"`
	Rows      []WarehouseStockRow `json:"stockPorProducto"`
}
