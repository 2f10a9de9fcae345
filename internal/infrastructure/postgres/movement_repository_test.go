package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

func TestMovementWhere(t *testing.T) {
	cond, args := movementWhere(repository.MovementFilter{})
	assert.Empty(t, cond)
	assert.Empty(t, args)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cond, args = movementWhere(repository.MovementFilter{Type: "salida", WarehouseID: "b-1", From: &from})
	assert.Equal(t, " WHERE m.tipo = $1 AND m.bodega_id = $2 AND m.fecha >= $3", cond)
	assert.Equal(t, []any{"salida", "b-1", from}, args)
}
