package repository

import "time"

// Page paginación por limit/offset. Limit <= 0 significa sin límite.
type Page struct {
	Limit  int
	Offset int
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	IncludeInactive bool
	CategoryID      string
	Search          string // nombre o código, sin distinguir mayúsculas
	Page
}

// MovementFilter filtros de movimientos. Los campos vacíos no filtran.
type MovementFilter struct {
	Type        string
	ProductID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
}

// GroupBy agrupación de agregados de movimientos.
type GroupBy int

const (
	GroupNone GroupBy = iota
	GroupByProduct
	GroupByWarehouse
)

// UserFilter filtros del listado de usuarios.
type UserFilter struct {
	Search string
	Active *bool
	Page
}
