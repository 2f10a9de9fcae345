package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada uno es un "tipo" que la capa HTTP traduce a un status.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidRevert     = errors.New("no se puede revertir el movimiento")
)

// Error asocia un mensaje legible a uno de los errores de dominio.
// errors.Is(err, domain.ErrNotFound) sigue funcionando gracias a Unwrap.
type Error struct {
	Kind    error
	Message string
}

// NewError construye un error de dominio con mensaje para el usuario final.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Message devuelve el texto a mostrar al cliente: el mensaje de *Error si existe, si no el del sentinel.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}
