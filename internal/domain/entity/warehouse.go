package entity

import "time"

// Warehouse representa una bodega o centro de acopio.
type Warehouse struct {
	ID               string
	Code             string
	Name             string
	Address          string
	Capacity         *int64 // nil si no se definió
	ResponsibleName  string
	ResponsibleEmail string
	ResponsiblePhone string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
