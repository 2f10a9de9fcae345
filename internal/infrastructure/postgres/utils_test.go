package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
)

func TestMapWriteError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.ErrorIs(t, mapWriteError(unique), domain.ErrDuplicate)
	assert.ErrorIs(t, mapWriteError(fk), domain.ErrConflict)
	assert.NoError(t, mapWriteError(errors.New("conexión cerrada")))
	assert.ErrorIs(t, mapWriteError(&pgconn.PgError{Code: "22P02"}), domain.ErrInvalidInput)
}

func TestWrapErr(t *testing.T) {
	badUUID := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	err := wrapErr("get movement", badUUID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Identificador con formato inválido", domain.Message(err))

	cause := errors.New("conexión cerrada")
	err = wrapErr("get movement", cause)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "get movement: conexión cerrada", err.Error())
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%kit%", likePattern("KIT"))
	assert.Equal(t, `%50\%\_a%`, likePattern("50%_a"))
}
