package entity

import "time"

// User identidad del sistema (Usuario). Los permisos efectivos salen de sus roles.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string // bcrypt; nunca sale del backend
	Active       bool
	LastAccessAt *time.Time
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleCodes códigos de los roles asignados.
func (u *User) RoleCodes() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Code)
	}
	return out
}

// RefreshToken token de refresco persistido; ID coincide con el jti del JWT.
type RefreshToken struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
