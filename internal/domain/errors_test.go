package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("registrar: %w", NewError(ErrInsufficientStock, "Stock insuficiente. Disponible: 3"))

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Stock insuficiente. Disponible: 3", Message(err))
}

func TestMessageFallsBackToSentinel(t *testing.T) {
	assert.Equal(t, "recurso no encontrado", Message(ErrNotFound))
	assert.Equal(t, "acceso denegado", NewError(ErrForbidden, "").Error())
}
