package dto

import "time"

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser datos del usuario devueltos al autenticarse.
type AuthUser struct {
	ID        string   `json:"id"`
	FirstName string   `json:"nombres"`
	LastName  string   `json:"apellidos"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// LoginResponse par de tokens más el usuario.
type LoginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         AuthUser `json:"user"`
}

// RegisterRequest alta de usuario por un ADMIN; RoleCode opcional.
type RegisterRequest struct {
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
	Email     string `json:"email"`
	Phone     string `json:"celular"`
	Password  string `json:"password"`
	RoleCode  string `json:"rolCodigo"`
}

// RefreshTokenRequest cuerpo de /auth/refresh-token y /auth/logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair tokens rotados.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest cambio de contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// RoleSummary rol resumido dentro de un usuario.
type RoleSummary struct {
	ID   string `json:"id"`
	Code string `json:"codigo"`
	Name string `json:"nombre"`
}

// ProfileResponse perfil con roles y permisos efectivos deduplicados.
type ProfileResponse struct {
	ID           string        `json:"id"`
	FirstName    string        `json:"nombres"`
	LastName     string        `json:"apellidos"`
	Email        string        `json:"email"`
	Phone        string        `json:"celular"`
	Active       bool          `json:"activo"`
	LastAccessAt *time.Time    `json:"ultimoAcceso,omitempty"`
	Roles        []RoleSummary `json:"roles"`
	Permissions  []string      `json:"permisos"`
}
