package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), code)
}

// mapWriteError traduce violaciones de constraints a errores de dominio.
func mapWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrConflict
	case hasCode(err, codeInvalidText):
		return invalidID()
	}
	return nil
}

// wrapErr agrega la operación al error de pgx. Un uuid mal formado (22P02) es entrada inválida, no un fallo de la base.
func wrapErr(op string, err error) error {
	if hasCode(err, codeInvalidText) {
		return invalidID()
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalidID() error {
	return domain.NewError(domain.ErrInvalidInput, "Identificador con formato inválido")
}

// likePattern patrón ILIKE con comodines escapados.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
