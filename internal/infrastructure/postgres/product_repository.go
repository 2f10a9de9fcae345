package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productSelect = `
	SELECT p.id, p.codigo, p.nombre, p.descripcion, p.categoria_id, p.unidad_medida_id,
	       p.stock_minimo, p.stock_actual, p.perecedero, p.fecha_vencimiento, p.activo, p.created_at, p.updated_at,
	       c.id, c.codigo, c.nombre, c.descripcion, c.activo,
	       u.id, u.codigo, u.nombre, u.abreviatura, u.activo
	FROM productos p
	JOIN categorias c ON c.id = p.categoria_id
	JOIN unidades_medida u ON u.id = p.unidad_medida_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO productos (id, codigo, nombre, descripcion, categoria_id, unidad_medida_id, stock_minimo, stock_actual,
		                       perecedero, fecha_vencimiento, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.CategoryID, p.UnitID, p.StockMin, p.StockActual,
		p.Perishable, p.ExpiresAt, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con categoría y unidad.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetByIDForUpdate igual que GetByID pero bloquea la fila del producto (FOR UPDATE OF p).
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.codigo = $1`, code)
}

// GetByIDs obtiene varios productos en una sola consulta.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, productSelect+` WHERE p.id = ANY($1::uuid[]) ORDER BY p.nombre`, ids)
	if err != nil {
		return nil, wrapErr("get products by ids", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Update actualiza datos descriptivos. stock_actual solo cambia vía ApplyStockDelta.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE productos SET codigo = $2, nombre = $3, descripcion = $4, categoria_id = $5, unidad_medida_id = $6,
		       stock_minimo = $7, perecedero = $8, fecha_vencimiento = $9, activo = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.CategoryID, p.UnitID,
		p.StockMin, p.Perishable, p.ExpiresAt, p.Active, p.UpdatedAt,
	)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("update product", err)
	}
	return nil
}

// ApplyStockDelta actualización condicional: solo escribe si el stock resultante es >= 0.
func (r *ProductRepo) ApplyStockDelta(ctx context.Context, id string, delta int64) (int64, bool, error) {
	var stock int64
	err := r.q.QueryRow(ctx, `
		UPDATE productos SET stock_actual = stock_actual + $2, updated_at = now()
		WHERE id = $1 AND stock_actual + $2 >= 0
		RETURNING stock_actual`, id, delta).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, wrapErr("apply stock delta", err)
	}
	return stock, true, nil
}

// SetActive activa o desactiva el producto.
func (r *ProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.q.Exec(ctx, `UPDATE productos SET activo = $2, updated_at = now() WHERE id = $1`, id, active); err != nil {
		return wrapErr("set product active", err)
	}
	return nil
}

// List lista productos con filtros y paginación; devuelve también el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int64, error) {
	var where []string
	var args []any
	pos := 1
	if !f.IncludeInactive {
		where = append(where, "p.activo")
	}
	if f.CategoryID != "" {
		where = append(where, fmt.Sprintf("p.categoria_id = $%d", pos))
		args = append(args, f.CategoryID)
		pos++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(lower(p.nombre) LIKE $%d OR lower(p.codigo) LIKE $%d)", pos, pos))
		args = append(args, likePattern(f.Search))
		pos++
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM productos p`+cond, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count products", err)
	}

	query := productSelect + cond + ` ORDER BY p.nombre`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list products", err)
	}
	defer rows.Close()
	list, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete elimina el producto. Con movimientos asociados la FK responde ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("delete product", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return p, nil
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	var c entity.Category
	var u entity.Unit
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.UnitID,
		&p.StockMin, &p.StockActual, &p.Perishable, &p.ExpiresAt, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Code, &c.Name, &c.Description, &c.Active,
		&u.ID, &u.Code, &u.Name, &u.Abbreviation, &u.Active,
	)
	if err != nil {
		return nil, err
	}
	p.Category, p.Unit = &c, &u
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr("scan product", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
