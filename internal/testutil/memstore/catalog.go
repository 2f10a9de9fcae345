package memstore

import (
	"context"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// CategoryRepo categorías en memoria. ProductsCount se calcula al leer.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.categories {
		if x.Code == c.Code {
			return duplicate("código de categoría duplicado")
		}
	}
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.categories[id]
	if !ok {
		return nil, nil
	}
	return r.withCount(c), nil
}

func (r *CategoryRepo) GetByCode(_ context.Context, code string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.categories {
		if c.Code == code {
			return r.withCount(c), nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.categories[c.ID]; !ok {
		return errMissing
	}
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.categories[id]
	if !ok {
		return errMissing
	}
	c.Active = active
	r.s.st.categories[id] = c
	return nil
}

func (r *CategoryRepo) List(_ context.Context, includeInactive bool) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for _, id := range sortedKeys(r.s.st.categories) {
		c := r.s.st.categories[id]
		if includeInactive || c.Active {
			out = append(out, r.withCount(c))
		}
	}
	return out, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.products {
		if p.CategoryID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.st.categories, id)
	return nil
}

func (r *CategoryRepo) withCount(c entity.Category) *entity.Category {
	c.ProductsCount = 0
	for _, p := range r.s.st.products {
		if p.CategoryID == c.ID {
			c.ProductsCount++
		}
	}
	return &c
}

// UnitRepo unidades en memoria. ProductsCount se calcula al leer.
type UnitRepo struct{ s *Store }

func (r *UnitRepo) Create(_ context.Context, u *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.units {
		if x.Code == u.Code {
			return duplicate("código de unidad duplicado")
		}
	}
	r.s.st.units[u.ID] = *u
	return nil
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.units[id]
	if !ok {
		return nil, nil
	}
	return r.withCount(u), nil
}

func (r *UnitRepo) GetByCode(_ context.Context, code string) (*entity.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.units {
		if u.Code == code {
			return r.withCount(u), nil
		}
	}
	return nil, nil
}

func (r *UnitRepo) Update(_ context.Context, u *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.units[u.ID]; !ok {
		return errMissing
	}
	r.s.st.units[u.ID] = *u
	return nil
}

func (r *UnitRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.units[id]
	if !ok {
		return errMissing
	}
	u.Active = active
	r.s.st.units[id] = u
	return nil
}

func (r *UnitRepo) List(_ context.Context, includeInactive bool) ([]*entity.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Unit
	for _, id := range sortedKeys(r.s.st.units) {
		u := r.s.st.units[id]
		if includeInactive || u.Active {
			out = append(out, r.withCount(u))
		}
	}
	return out, nil
}

func (r *UnitRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.products {
		if p.UnitID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.st.units, id)
	return nil
}

func (r *UnitRepo) withCount(u entity.Unit) *entity.Unit {
	u.ProductsCount = 0
	for _, p := range r.s.st.products {
		if p.UnitID == u.ID {
			u.ProductsCount++
		}
	}
	return &u
}
