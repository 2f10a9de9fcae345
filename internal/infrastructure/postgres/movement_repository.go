package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `m.id, m.tipo, m.producto_id, m.bodega_id, m.cantidad, m.fecha, m.observaciones, m.origen, m.registrado_por_id, m.created_at`

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movimientos (id, tipo, producto_id, bodega_id, cantidad, fecha, observaciones, origen, registrado_por_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.Type), m.ProductID, m.WarehouseID, m.Quantity, m.Date, m.Notes, string(m.Source),
		m.RecordedByID, m.CreatedAt,
	)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("create movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID, sin relaciones.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movimientos m WHERE m.id = $1`, id)
}

// GetByIDForUpdate bloquea la fila del movimiento hasta el fin de la transacción.
func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movimientos m WHERE m.id = $1 FOR UPDATE`, id)
}

// Delete elimina el movimiento (solo como compensación dentro de una reversión).
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movimientos WHERE id = $1`, id); err != nil {
		return wrapErr("delete movement", err)
	}
	return nil
}

// List movimientos filtrados, más recientes primero, con producto, bodega y registrador.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	cond, args := movementWhere(f)
	query := `
		SELECT ` + movementColumns + `,
		       p.id, p.codigo, p.nombre, p.stock_minimo, p.stock_actual, p.activo,
		       b.id, b.codigo, b.nombre, b.activo,
		       u.id, u.nombres, u.apellidos
		FROM movimientos m
		JOIN productos p ON p.id = m.producto_id
		JOIN bodegas b ON b.id = m.bodega_id
		JOIN usuarios u ON u.id = m.registrado_por_id` + cond + `
		ORDER BY m.fecha DESC, m.created_at DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var typ, source string
		var p entity.Product
		var w entity.Warehouse
		var u entity.User
		if err := rows.Scan(
			&m.ID, &typ, &m.ProductID, &m.WarehouseID, &m.Quantity, &m.Date, &m.Notes, &source, &m.RecordedByID, &m.CreatedAt,
			&p.ID, &p.Code, &p.Name, &p.StockMin, &p.StockActual, &p.Active,
			&w.ID, &w.Code, &w.Name, &w.Active,
			&u.ID, &u.FirstName, &u.LastName,
		); err != nil {
			return nil, wrapErr("scan movement", err)
		}
		m.Type, m.Source = entity.MovementType(typ), entity.MovementSource(source)
		m.Product, m.Warehouse, m.RecordedBy = &p, &w, &u
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountByProduct número de movimientos del producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movimientos WHERE producto_id = $1`, productID).Scan(&n); err != nil {
		return 0, wrapErr("count movements by product", err)
	}
	return n, nil
}

// CountByWarehouses número de movimientos por bodega.
func (r *MovementRepo) CountByWarehouses(ctx context.Context, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT bodega_id, COUNT(*) FROM movimientos WHERE bodega_id = ANY($1::uuid[]) GROUP BY bodega_id`, ids)
	if err != nil {
		return nil, wrapErr("count movements by warehouse", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, wrapErr("scan movement count", err)
		}
		out[id] = n
	}
	return out, rows.Err()
}

// Aggregate sumas de entradas y salidas agrupadas. SUM(BIGINT) llega como NUMERIC y se lee como decimal.
func (r *MovementRepo) Aggregate(ctx context.Context, f repository.MovementFilter, group repository.GroupBy) ([]entity.MovementAggregate, error) {
	cond, args := movementWhere(f)
	sums := `
		COALESCE(SUM(m.cantidad) FILTER (WHERE m.tipo = 'entrada'), 0),
		COALESCE(SUM(m.cantidad) FILTER (WHERE m.tipo = 'salida'), 0),
		COUNT(*)`

	var query string
	switch group {
	case repository.GroupByProduct:
		query = `SELECT p.id::text, p.nombre,` + sums + `
			FROM movimientos m JOIN productos p ON p.id = m.producto_id` + cond + `
			GROUP BY p.id, p.nombre ORDER BY COUNT(*) DESC, p.nombre`
	case repository.GroupByWarehouse:
		query = `SELECT b.id::text, b.nombre,` + sums + `
			FROM movimientos m JOIN bodegas b ON b.id = m.bodega_id` + cond + `
			GROUP BY b.id, b.nombre ORDER BY COUNT(*) DESC, b.nombre`
	default:
		query = `SELECT '', '',` + sums + ` FROM movimientos m` + cond
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("aggregate movements", err)
	}
	defer rows.Close()
	var out []entity.MovementAggregate
	for rows.Next() {
		var a entity.MovementAggregate
		var in, outQty decimal.Decimal
		if err := rows.Scan(&a.Key, &a.Name, &in, &outQty, &a.Count); err != nil {
			return nil, wrapErr("scan aggregate", err)
		}
		a.Entradas, a.Salidas = in.IntPart(), outQty.IntPart()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *MovementRepo) getOne(ctx context.Context, query, id string) (*entity.Movement, error) {
	var m entity.Movement
	var typ, source string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &typ, &m.ProductID, &m.WarehouseID, &m.Quantity, &m.Date, &m.Notes, &source, &m.RecordedByID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get movement", err)
	}
	m.Type, m.Source = entity.MovementType(typ), entity.MovementSource(source)
	return &m, nil
}

// movementWhere arma la cláusula WHERE con placeholders posicionales.
func movementWhere(f repository.MovementFilter) (string, []any) {
	var where []string
	var args []any
	add := func(expr string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(expr, len(args)))
	}
	if f.Type != "" {
		add("m.tipo = $%d", f.Type)
	}
	if f.ProductID != "" {
		add("m.producto_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		add("m.bodega_id = $%d", f.WarehouseID)
	}
	if f.From != nil {
		add("m.fecha >= $%d", *f.From)
	}
	if f.To != nil {
		add("m.fecha <= $%d", *f.To)
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}
