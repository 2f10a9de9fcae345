package entity

// Category categoría de productos (ALIMENTOS, HIGIENE, ...).
// ProductsCount lo calcula el repositorio al leer.
type Category struct {
	ID            string
	Code          string
	Name          string
	Description   string
	Active        bool
	ProductsCount int64
}

// Unit unidad de medida (UND, KG, LT, ...).
type Unit struct {
	ID            string
	Code          string
	Name          string
	Abbreviation  string
	Active        bool
	ProductsCount int64
}
