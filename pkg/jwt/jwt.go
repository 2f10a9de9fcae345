package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrWrongTokenType se devuelve al presentar un refresh token donde se espera un access token (o al revés).
var ErrWrongTokenType = errors.New("jwt: tipo de token inesperado")

// Claims incluye los claims estándar más la identidad que consume el resolvedor de acceso.
// Roles lleva los códigos de rol para que el bypass ADMIN no requiera consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"userId"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	Type   string   `json:"typ"`
}

// Generate firma un access token HS256 con userID, email y códigos de rol.
func Generate(secret, userID, email string, roles []string, issuer string, expMinutes int) (string, error) {
	return sign(secret, Claims{
		RegisteredClaims: registered(userID, issuer, time.Duration(expMinutes)*time.Minute, ""),
		UserID:           userID,
		Email:            email,
		Roles:            roles,
		Type:             TypeAccess,
	})
}

// GenerateRefresh firma un refresh token. tokenID identifica la fila persistida (jti) para poder rotarla o revocarla.
func GenerateRefresh(secret, userID, tokenID, issuer string, expHours int) (string, time.Time, error) {
	rc := registered(userID, issuer, time.Duration(expHours)*time.Hour, tokenID)
	s, err := sign(secret, Claims{RegisteredClaims: rc, UserID: userID, Type: TypeRefresh})
	if err != nil {
		return "", time.Time{}, err
	}
	return s, rc.ExpiresAt.Time, nil
}

// Parse valida un access token y devuelve sus claims.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o es un refresh token.
func Parse(secret, tokenString string) (*Claims, error) {
	return parseTyped(secret, tokenString, TypeAccess)
}

// ParseRefresh valida un refresh token.
func ParseRefresh(secret, tokenString string) (*Claims, error) {
	return parseTyped(secret, tokenString, TypeRefresh)
}

func registered(subject, issuer string, ttl time.Duration, id string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        id,
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseTyped(secret, tokenString, typ string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// IsExpired indica si el error de Parse se debe a un token vencido.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

// UnverifiedID lee el jti sin validar firma ni expiración (solo para limpieza de tokens vencidos).
func UnverifiedID(tokenString string) string {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	return claims.ID
}
