package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

const warehouseColumns = `id, codigo, nombre, direccion, capacidad, responsable_nombre, responsable_email, responsable_celular, activo, created_at, updated_at`

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `INSERT INTO bodegas (` + warehouseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.Code, w.Name, w.Address, w.Capacity, w.ResponsibleName, w.ResponsibleEmail, w.ResponsiblePhone,
		w.Active, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert warehouse", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT `+warehouseColumns+` FROM bodegas WHERE id = $1`, id)
}

// GetByCode obtiene una bodega por código.
func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT `+warehouseColumns+` FROM bodegas WHERE codigo = $1`, code)
}

// Update actualiza una bodega.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `
		UPDATE bodegas SET codigo = $2, nombre = $3, direccion = $4, capacidad = $5, responsable_nombre = $6,
		       responsable_email = $7, responsable_celular = $8, activo = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.Code, w.Name, w.Address, w.Capacity, w.ResponsibleName, w.ResponsibleEmail, w.ResponsiblePhone,
		w.Active, w.UpdatedAt,
	)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("update warehouse", err)
	}
	return nil
}

// SetActive activa o desactiva la bodega.
func (r *WarehouseRepo) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.q.Exec(ctx, `UPDATE bodegas SET activo = $2, updated_at = now() WHERE id = $1`, id, active); err != nil {
		return wrapErr("set warehouse active", err)
	}
	return nil
}

// List lista bodegas ordenadas por nombre.
func (r *WarehouseRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM bodegas`
	if !includeInactive {
		query += ` WHERE activo`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY nombre`)
	if err != nil {
		return nil, wrapErr("list warehouses", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, wrapErr("scan warehouse", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Delete elimina la bodega. Con movimientos asociados la FK responde ErrConflict.
func (r *WarehouseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bodegas WHERE id = $1`, id); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("delete warehouse", err)
	}
	return nil
}

func (r *WarehouseRepo) getOne(ctx context.Context, query string, arg any) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get warehouse", err)
	}
	return w, nil
}

func scanWarehouse(row scanner) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := row.Scan(&w.ID, &w.Code, &w.Name, &w.Address, &w.Capacity, &w.ResponsibleName, &w.ResponsibleEmail,
		&w.ResponsiblePhone, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
