package entity

import "time"

// Product representa un artículo de ayuda humanitaria (kit, alimento, insumo).
// StockActual es el saldo global desnormalizado; solo lo modifica el libro de stock junto con un Movement.
type Product struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	CategoryID  string
	UnitID      string
	StockMin    int64 // umbral de reposición
	StockActual int64
	Perishable  bool
	ExpiresAt   *time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relaciones cargadas en lecturas (opcionales).
	Category *Category
	Unit     *Unit
}
