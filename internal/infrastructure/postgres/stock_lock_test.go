package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
)

// recordingQuerier guarda cada sentencia y responde QueryRow con row.
type recordingQuerier struct {
	sql  []string
	args [][]any
	row  pgx.Row
}

func (q *recordingQuerier) record(sql string, args []any) {
	q.sql = append(q.sql, strings.Join(strings.Fields(sql), " "))
	q.args = append(q.args, args)
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.record(sql, args)
	return pgconn.CommandTag{}, nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.record(sql, args)
	return nil, errors.New("no soportado")
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.record(sql, args)
	return q.row
}

func (q *recordingQuerier) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("no soportado")
}

// stubRow responde Scan con err o copia value al primer destino *int64.
type stubRow struct {
	value int64
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.value
	return nil
}

func TestApplyStockDelta_ConditionalUpdate(t *testing.T) {
	ctx := context.Background()

	q := &recordingQuerier{row: stubRow{value: 6}}
	stock, applied, err := NewProductRepository(q).ApplyStockDelta(ctx, "p-1", -4)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(6), stock)
	require.Len(t, q.sql, 1)
	assert.Contains(t, q.sql[0], "SET stock_actual = stock_actual + $2")
	assert.Contains(t, q.sql[0], "WHERE id = $1 AND stock_actual + $2 >= 0")
	assert.Equal(t, []any{"p-1", int64(-4)}, q.args[0])

	q = &recordingQuerier{row: stubRow{err: pgx.ErrNoRows}}
	_, applied, err = NewProductRepository(q).ApplyStockDelta(ctx, "p-1", -100)
	require.NoError(t, err, "sin filas afectadas no es un error: el stock no alcanzaba")
	assert.False(t, applied)
}

func TestApplyStockDelta_MalformedID(t *testing.T) {
	q := &recordingQuerier{row: stubRow{err: &pgconn.PgError{Code: "22P02"}}}
	_, _, err := NewProductRepository(q).ApplyStockDelta(context.Background(), "abc", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByIDForUpdate_LocksRow(t *testing.T) {
	ctx := context.Background()
	q := &recordingQuerier{row: stubRow{err: pgx.ErrNoRows}}

	p, err := NewProductRepository(q).GetByIDForUpdate(ctx, "p-1")
	require.NoError(t, err)
	assert.Nil(t, p)

	m, err := NewMovementRepository(q).GetByIDForUpdate(ctx, "m-1")
	require.NoError(t, err)
	assert.Nil(t, m)

	require.Len(t, q.sql, 2)
	assert.True(t, strings.HasSuffix(q.sql[0], "WHERE p.id = $1 FOR UPDATE OF p"), q.sql[0])
	assert.True(t, strings.HasSuffix(q.sql[1], "WHERE m.id = $1 FOR UPDATE"), q.sql[1])
}
