package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.UnitRepository     = (*UnitRepo)(nil)
)

const (
	categorySelect = `
		SELECT c.id, c.codigo, c.nombre, c.descripcion, c.activo,
		       (SELECT count(*) FROM productos p WHERE p.categoria_id = c.id)
		FROM categorias c`
	unitSelect = `
		SELECT u.id, u.codigo, u.nombre, u.abreviatura, u.activo,
		       (SELECT count(*) FROM productos p WHERE p.unidad_medida_id = u.id)
		FROM unidades_medida u`
)

// CategoryRepo categorías de producto sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categorias (id, codigo, nombre, descripcion, activo) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Code, c.Name, c.Description, c.Active)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert category", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, categorySelect+` WHERE c.id = $1`, id)
}

func (r *CategoryRepo) GetByCode(ctx context.Context, code string) (*entity.Category, error) {
	return r.getOne(ctx, categorySelect+` WHERE c.codigo = $1`, code)
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `UPDATE categorias SET codigo = $2, nombre = $3, descripcion = $4, activo = $5 WHERE id = $1`,
		c.ID, c.Code, c.Name, c.Description, c.Active)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("update category", err)
	}
	return nil
}

func (r *CategoryRepo) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.q.Exec(ctx, `UPDATE categorias SET activo = $2 WHERE id = $1`, id, active); err != nil {
		return wrapErr("set category active", err)
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Category, error) {
	query := categorySelect
	if !includeInactive {
		query += ` WHERE c.activo`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY c.nombre`)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, wrapErr("scan category", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina la categoría. Con productos asociados la FK responde ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("delete category", err)
	}
	return nil
}

func (r *CategoryRepo) getOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get category", err)
	}
	return c, nil
}

func scanCategory(row scanner) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.Active, &c.ProductsCount); err != nil {
		return nil, err
	}
	return &c, nil
}

// UnitRepo unidades de medida sobre PostgreSQL.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	_, err := r.q.Exec(ctx, `INSERT INTO unidades_medida (id, codigo, nombre, abreviatura, activo) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Code, u.Name, u.Abbreviation, u.Active)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert unit", err)
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	return r.getOne(ctx, unitSelect+` WHERE u.id = $1`, id)
}

func (r *UnitRepo) GetByCode(ctx context.Context, code string) (*entity.Unit, error) {
	return r.getOne(ctx, unitSelect+` WHERE u.codigo = $1`, code)
}

func (r *UnitRepo) Update(ctx context.Context, u *entity.Unit) error {
	_, err := r.q.Exec(ctx, `UPDATE unidades_medida SET codigo = $2, nombre = $3, abreviatura = $4, activo = $5 WHERE id = $1`,
		u.ID, u.Code, u.Name, u.Abbreviation, u.Active)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("update unit", err)
	}
	return nil
}

func (r *UnitRepo) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.q.Exec(ctx, `UPDATE unidades_medida SET activo = $2 WHERE id = $1`, id, active); err != nil {
		return wrapErr("set unit active", err)
	}
	return nil
}

func (r *UnitRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Unit, error) {
	query := unitSelect
	if !includeInactive {
		query += ` WHERE u.activo`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY u.nombre`)
	if err != nil {
		return nil, wrapErr("list units", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, wrapErr("scan unit", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Delete elimina la unidad. Con productos asociados la FK responde ErrConflict.
func (r *UnitRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM unidades_medida WHERE id = $1`, id); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("delete unit", err)
	}
	return nil
}

func (r *UnitRepo) getOne(ctx context.Context, query string, arg any) (*entity.Unit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get unit", err)
	}
	return u, nil
}

func scanUnit(row scanner) (*entity.Unit, error) {
	var u entity.Unit
	if err := row.Scan(&u.ID, &u.Code, &u.Name, &u.Abbreviation, &u.Active, &u.ProductsCount); err != nil {
		return nil, err
	}
	return &u, nil
}
