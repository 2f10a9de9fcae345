package entity

import "time"

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementIn  MovementType = "entrada"
	MovementOut MovementType = "salida"
)

// Valid indica si el tipo es uno de los soportados.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Sign devuelve +1 para entradas y -1 para salidas.
func (t MovementType) Sign() int64 {
	if t == MovementOut {
		return -1
	}
	return 1
}

// MovementSource identifica el punto de entrada que originó el movimiento.
type MovementSource string

const (
	SourceMovement MovementSource = "movimiento" // POST /movimientos
	SourceAdjust   MovementSource = "ajuste"     // POST /productos/:id/adjust-stock
	SourceOpening  MovementSource = "inicial"    // stock inicial al crear el producto
	SourceEdit     MovementSource = "edicion"    // cambio directo de stockActual en PUT /productos/:id
)

// Movement entrada inmutable del libro de stock.
type Movement struct {
	ID           string
	Type         MovementType
	ProductID    string
	WarehouseID  string
	Quantity     int64 // siempre positiva; el signo lo da Type
	Date         time.Time
	Notes        string
	Source       MovementSource
	RecordedByID string
	CreatedAt    time.Time

	// Relaciones cargadas en lecturas (opcionales).
	Product    *Product
	Warehouse  *Warehouse
	RecordedBy *User
}

// Delta efecto firmado del movimiento sobre el stock.
func (m *Movement) Delta() int64 {
	return m.Type.Sign() * m.Quantity
}

// MovementAggregate totales de movimientos agrupados (por producto, por bodega o global si Key es vacío).
type MovementAggregate struct {
	Key      string
	Name     string
	Entradas int64
	Salidas  int64
	Count    int64
}

// Balance entradas menos salidas.
func (a MovementAggregate) Balance() int64 {
	return a.Entradas - a.Salidas
}
