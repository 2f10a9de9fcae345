package dto

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Code        string `json:"codigo"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// UpdateCategoryRequest entrada para actualizar una categoría.
type UpdateCategoryRequest struct {
	Code        *string `json:"codigo"`
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Active      *bool   `json:"activo"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID            string `json:"id"`
	Code          string `json:"codigo"`
	Name          string `json:"nombre"`
	Description   string `json:"descripcion,omitempty"`
	Active        bool   `json:"activo"`
	ProductsCount int64  `json:"productosCount"`
}

// CreateUnitRequest entrada para crear una unidad de medida.
type CreateUnitRequest struct {
	Code         string `json:"codigo"`
	Name         string `json:"nombre"`
	Abbreviation string `json:"abreviatura"`
}

// UpdateUnitRequest entrada para actualizar una unidad de medida.
type UpdateUnitRequest struct {
	Code         *string `json:"codigo"`
	Name         *string `json:"nombre"`
	Abbreviation *string `json:"abreviatura"`
	Active       *bool   `json:"activo"`
}

// UnitResponse salida de una unidad de medida.
type UnitResponse struct {
	ID            string `json:"id"`
	Code          string `json:"codigo"`
	Name          string `json:"nombre"`
	Abbreviation  string `json:"abreviatura"`
	Active        bool   `json:"activo"`
	ProductsCount int64  `json:"productosCount"`
}
