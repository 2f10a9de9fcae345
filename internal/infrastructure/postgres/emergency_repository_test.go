package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
)

func TestEmergencyEventList_FiltersActiveByDefault(t *testing.T) {
	ctx := context.Background()

	q := &recordingQuerier{}
	_, err := NewEmergencyEventRepository(q).List(ctx, false)
	require.Error(t, err)
	require.Len(t, q.sql, 1)
	assert.Contains(t, q.sql[0], "WHERE e.estado = $1 ORDER BY e.created_at DESC")
	assert.Equal(t, []any{"activo"}, q.args[0])

	q = &recordingQuerier{}
	_, _ = NewEmergencyEventRepository(q).List(ctx, true)
	assert.NotContains(t, q.sql[0], "e.estado =")
	assert.Empty(t, q.args[0])
}

func TestAffectedZoneList_FiltersByEvent(t *testing.T) {
	ctx := context.Background()

	q := &recordingQuerier{}
	_, _ = NewAffectedZoneRepository(q).List(ctx, "ev-1")
	assert.True(t, strings.HasSuffix(q.sql[0], "WHERE z.evento_id = $1 ORDER BY z.nombre"), q.sql[0])
	assert.Equal(t, []any{"ev-1"}, q.args[0])

	q = &recordingQuerier{}
	_, _ = NewAffectedZoneRepository(q).List(ctx, "")
	assert.NotContains(t, q.sql[0], "WHERE")
}

func TestCatalogReads_NotFoundAndMalformedID(t *testing.T) {
	ctx := context.Background()

	q := &recordingQuerier{row: stubRow{err: pgx.ErrNoRows}}
	c, err := NewCategoryRepository(q).GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Contains(t, q.sql[0], "count(*) FROM productos p WHERE p.categoria_id = c.id")

	q = &recordingQuerier{row: stubRow{err: &pgconn.PgError{Code: "22P02"}}}
	_, err = NewUnitRepository(q).GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewDisasterTypeRepository(q).GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
