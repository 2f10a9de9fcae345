package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.MovementRepository  = (*MovementRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.UnitRepository      = (*UnitRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.products {
		if x.Code == p.Code {
			return duplicate("código de producto duplicado")
		}
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.load(id), nil
}

func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, x := range r.s.st.products {
		if x.Code == code {
			return r.load(id), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p := r.load(id); p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.products[p.ID]
	if !ok {
		return errMissing
	}
	for id, x := range r.s.st.products {
		if id != p.ID && x.Code == p.Code {
			return duplicate("código de producto duplicado")
		}
	}
	upd := *p
	upd.StockActual = cur.StockActual
	upd.Category, upd.Unit = nil, nil
	r.s.st.products[p.ID] = upd
	return nil
}

func (r *ProductRepo) ApplyStockDelta(_ context.Context, id string, delta int64) (int64, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok || p.StockActual+delta < 0 {
		return 0, false, nil
	}
	p.StockActual += delta
	r.s.st.products[id] = p
	return p.StockActual, true, nil
}

func (r *ProductRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return errMissing
	}
	p.Active = active
	r.s.st.products[id] = p
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Product
	for _, id := range sortedKeys(r.s.st.products) {
		p := r.s.st.products[id]
		if !f.IncludeInactive && !p.Active {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Code), search) {
			continue
		}
		out = append(out, r.load(id))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.Page), int64(len(out)), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.st.movements {
		if m.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.st.products, id)
	return nil
}

func (r *ProductRepo) load(id string) *entity.Product {
	p, ok := r.s.st.products[id]
	if !ok {
		return nil
	}
	if c, ok := r.s.st.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	if u, ok := r.s.st.units[p.UnitID]; ok {
		p.Unit = &u
	}
	return &p
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.warehouses {
		if x.Code == w.Code {
			return duplicate("código de bodega duplicado")
		}
	}
	r.s.st.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.st.warehouses {
		if w.Code == code {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.warehouses[w.ID]; !ok {
		return errMissing
	}
	r.s.st.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.st.warehouses[id]
	if !ok {
		return errMissing
	}
	w.Active = active
	r.s.st.warehouses[id] = w
	return nil
}

func (r *WarehouseRepo) List(_ context.Context, includeInactive bool) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Warehouse
	for _, id := range sortedKeys(r.s.st.warehouses) {
		w := r.s.st.warehouses[id]
		if includeInactive || w.Active {
			out = append(out, &w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.st.movements {
		if m.WarehouseID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.st.warehouses, id)
	return nil
}

// MovementRepo movimientos en memoria.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailMovementCreate; err != nil {
		r.s.FailMovementCreate = nil
		return err
	}
	r.s.st.movements[m.ID] = *m
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.load(id), nil
}

func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.movements, id)
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movement
	for _, id := range sortedKeys(r.s.st.movements) {
		if match(r.s.st.movements[id], f) {
			out = append(out, r.load(id))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *MovementRepo) CountByProduct(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.st.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *MovementRepo) CountByWarehouses(_ context.Context, ids []string) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]int64, len(ids))
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, m := range r.s.st.movements {
		if want[m.WarehouseID] {
			out[m.WarehouseID]++
		}
	}
	return out, nil
}

func (r *MovementRepo) Aggregate(_ context.Context, f repository.MovementFilter, group repository.GroupBy) ([]entity.MovementAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc := map[string]*entity.MovementAggregate{}
	var order []string
	for _, id := range sortedKeys(r.s.st.movements) {
		m := r.s.st.movements[id]
		if !match(m, f) {
			continue
		}
		key, name := "", ""
		switch group {
		case repository.GroupByProduct:
			key, name = m.ProductID, r.s.st.products[m.ProductID].Name
		case repository.GroupByWarehouse:
			key, name = m.WarehouseID, r.s.st.warehouses[m.WarehouseID].Name
		}
		a, ok := acc[key]
		if !ok {
			a = &entity.MovementAggregate{Key: key, Name: name}
			acc[key] = a
			order = append(order, key)
		}
		if m.Type == entity.MovementOut {
			a.Salidas += m.Quantity
		} else {
			a.Entradas += m.Quantity
		}
		a.Count++
	}
	out := make([]entity.MovementAggregate, 0, len(order))
	for _, k := range order {
		out = append(out, *acc[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (r *MovementRepo) load(id string) *entity.Movement {
	m, ok := r.s.st.movements[id]
	if !ok {
		return nil
	}
	if p, ok := r.s.st.products[m.ProductID]; ok {
		m.Product = &p
	}
	if w, ok := r.s.st.warehouses[m.WarehouseID]; ok {
		m.Warehouse = &w
	}
	if u, ok := r.s.st.users[m.RecordedByID]; ok {
		m.RecordedBy = &u
	}
	return &m
}

func match(m entity.Movement, f repository.MovementFilter) bool {
	if f.Type != "" && string(m.Type) != f.Type {
		return false
	}
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
		return false
	}
	if f.From != nil && m.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Date.After(*f.To) {
		return false
	}
	return true
}

