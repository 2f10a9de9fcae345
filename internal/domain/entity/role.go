package entity

import "time"

// RoleAdmin código del rol que omite toda verificación de permisos.
const RoleAdmin = "ADMIN"

// Permission par (módulo, acción) con código único "modulo:accion".
type Permission struct {
	ID          string
	Code        string
	Name        string
	Module      string
	Action      string
	Description string
}

// Role agrupa permisos y se asigna a usuarios.
type Role struct {
	ID          string
	Code        string
	Name        string
	Description string
	Active      bool
	Permissions []Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PermissionCodes códigos de los permisos del rol.
func (r *Role) PermissionCodes() []string {
	out := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		out = append(out, p.Code)
	}
	return out
}
