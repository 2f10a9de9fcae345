package auth

import (
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// HashPassword genera el hash bcrypt de la contraseña.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidateEmail valida el formato del email.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return domain.NewError(domain.ErrInvalidInput, "Email inválido")
	}
	return nil
}

// ValidateNewUser reglas comunes al alta de usuarios (registro y CRUD de seguridad).
func ValidateNewUser(firstName, lastName, email, password string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return domain.NewError(domain.ErrInvalidInput, "nombres y apellidos son obligatorios")
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return domain.NewError(domain.ErrInvalidInput, "La contraseña debe tener al menos 8 caracteres")
	}
	return nil
}

// ToUserResponse convierte el usuario a DTO sin el hash de contraseña.
func ToUserResponse(u *entity.User) dto.UserResponse {
	roles := make([]dto.RoleSummary, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, dto.RoleSummary{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	return dto.UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		Active:       u.Active,
		LastAccessAt: u.LastAccessAt,
		Roles:        roles,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
