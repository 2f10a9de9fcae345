package dto

import "time"

// PermissionResponse salida de un permiso del catálogo.
type PermissionResponse struct {
	ID          string `json:"id"`
	Code        string `json:"codigo"`
	Name        string `json:"nombre"`
	Module      string `json:"modulo"`
	Action      string `json:"accion"`
	Description string `json:"descripcion,omitempty"`
}

// PermissionCatalogResponse respuesta de GET /roles/permisos.
type PermissionCatalogResponse struct {
	Permissions []PermissionResponse            `json:"permisos"`
	Grouped     map[string][]PermissionResponse `json:"grouped"`
}

// RoleResponse salida de un rol con sus permisos.
type RoleResponse struct {
	ID          string               `json:"id"`
	Code        string               `json:"codigo"`
	Name        string               `json:"nombre"`
	Description string               `json:"descripcion,omitempty"`
	Active      bool                 `json:"activo"`
	Permissions []PermissionResponse `json:"permisos"`
}

// CreateRoleRequest entrada para crear un rol.
type CreateRoleRequest struct {
	Code          string   `json:"codigo"`
	Name          string   `json:"nombre"`
	Description   string   `json:"descripcion"`
	PermissionIDs []string `json:"permisoIds"`
}

// UpdateRoleRequest entrada para actualizar un rol. PermissionIDs nil conserva los permisos actuales.
type UpdateRoleRequest struct {
	Name          *string   `json:"nombre"`
	Description   *string   `json:"descripcion"`
	Active        *bool     `json:"activo"`
	PermissionIDs *[]string `json:"permisoIds"`
}

// UserFilterRequest query de GET /usuarios.
type UserFilterRequest struct {
	Search string `query:"search"`
	Active string `query:"activo"` // "true" | "false" | ""
	PageRequest
}

// UserResponse salida de un usuario (nunca incluye el hash).
type UserResponse struct {
	ID           string        `json:"id"`
	FirstName    string        `json:"nombres"`
	LastName     string        `json:"apellidos"`
	Email        string        `json:"email"`
	Phone        string        `json:"celular"`
	Active       bool          `json:"activo"`
	LastAccessAt *time.Time    `json:"ultimoAcceso,omitempty"`
	Roles        []RoleSummary `json:"roles"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// CreateUserRequest entrada para crear un usuario con roles (ids).
type CreateUserRequest struct {
	FirstName string   `json:"nombres"`
	LastName  string   `json:"apellidos"`
	Email     string   `json:"email"`
	Phone     string   `json:"celular"`
	Password  string   `json:"password"`
	RoleIDs   []string `json:"roles"`
}

// UpdateUserRequest entrada para actualizar un usuario. RoleIDs nil conserva los roles.
type UpdateUserRequest struct {
	FirstName *string   `json:"nombres"`
	LastName  *string   `json:"apellidos"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"celular"`
	Active    *bool     `json:"activo"`
	RoleIDs   *[]string `json:"roles"`
}
