// Package memstore implementa los puertos de repository en memoria para tests de casos de uso.
// TxRunner serializa las transacciones y restaura una copia del estado si fn devuelve error,
// de modo que la atomicidad del libro de stock es observable sin PostgreSQL.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

type state struct {
	products      map[string]entity.Product
	warehouses    map[string]entity.Warehouse
	movements     map[string]entity.Movement
	categories    map[string]entity.Category
	units         map[string]entity.Unit
	disasterTypes map[string]entity.DisasterType
	events        map[string]entity.EmergencyEvent
	zones         map[string]entity.AffectedZone
	roles         map[string]entity.Role
	permissions   map[string]entity.Permission
	rolePerms     map[string][]string
	users         map[string]entity.User
	userRoles     map[string][]string
	refreshTokens map[string]entity.RefreshToken
}

func newState() state {
	return state{
		products:      map[string]entity.Product{},
		warehouses:    map[string]entity.Warehouse{},
		movements:     map[string]entity.Movement{},
		categories:    map[string]entity.Category{},
		units:         map[string]entity.Unit{},
		disasterTypes: map[string]entity.DisasterType{},
		events:        map[string]entity.EmergencyEvent{},
		zones:         map[string]entity.AffectedZone{},
		roles:         map[string]entity.Role{},
		permissions:   map[string]entity.Permission{},
		rolePerms:     map[string][]string{},
		users:         map[string]entity.User{},
		userRoles:     map[string][]string{},
		refreshTokens: map[string]entity.RefreshToken{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.disasterTypes {
		c.disasterTypes[k] = v
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	for k, v := range s.zones {
		c.zones[k] = v
	}
	for k, v := range s.roles {
		c.roles[k] = v
	}
	for k, v := range s.permissions {
		c.permissions[k] = v
	}
	for k, v := range s.rolePerms {
		c.rolePerms[k] = append([]string(nil), v...)
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.userRoles {
		c.userRoles[k] = append([]string(nil), v...)
	}
	for k, v := range s.refreshTokens {
		c.refreshTokens[k] = v
	}
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   state

	// FailMovementCreate, si no es nil, hace fallar la próxima inserción de movimiento (prueba de rollback).
	FailMovementCreate error
	// RoleLoads cuenta lecturas de roles por usuario (para observar la caché de permisos).
	RoleLoads int
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }
func (s *Store) Units() *UnitRepo { return &UnitRepo{s: s} }
func (s *Store) DisasterTypes() *DisasterTypeRepo { return &DisasterTypeRepo{s: s} }
func (s *Store) Events() *EventRepo { return &EventRepo{s: s} }
func (s *Store) Zones() *ZoneRepo { return &ZoneRepo{s: s} }
func (s *Store) Roles() *RoleRepo { return &RoleRepo{s: s} }
func (s *Store) Permissions() *PermissionRepo { return &PermissionRepo{s: s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) RefreshTokens() *RefreshTokenRepo { return &RefreshTokenRepo{s: s} }

// TxRunner runner transaccional con rollback por snapshot.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner implementa inventory.TxRunner.
type TxRunner struct{ s *Store }

// Run serializa transacciones y restaura el estado previo si fn falla.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.MovementRepository) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	snapshot := r.s.st.clone()
	r.s.mu.Unlock()

	if err := fn(r.s.Products(), r.s.Movements()); err != nil {
		r.s.mu.Lock()
		r.s.st = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// Seed helpers -----------------------------------------------------------

// AddCategory registra una categoría activa.
func (s *Store) AddCategory(id, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.categories[id] = entity.Category{ID: id, Code: code, Name: code, Active: true}
}

// AddUnit registra una unidad activa.
func (s *Store) AddUnit(id, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.units[id] = entity.Unit{ID: id, Code: code, Name: code, Abbreviation: strings.ToLower(code), Active: true}
}

// AddDisasterType registra un tipo de desastre activo.
func (s *Store) AddDisasterType(id, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.st.disasterTypes[id] = entity.DisasterType{ID: id, Code: code, Name: code, Active: true, CreatedAt: now, UpdatedAt: now}
}

// AddWarehouse registra una bodega activa.
func (s *Store) AddWarehouse(id, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.st.warehouses[id] = entity.Warehouse{ID: id, Code: code, Name: code, Active: true, CreatedAt: now, UpdatedAt: now}
}

// AddProduct registra un producto con stock 0.
func (s *Store) AddProduct(id, code string, stockMin int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.st.products[id] = entity.Product{ID: id, Code: code, Name: code, StockMin: stockMin, Active: true, CreatedAt: now, UpdatedAt: now}
}

// AddPermission registra un permiso del catálogo.
func (s *Store) AddPermission(id, module, action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.permissions[id] = entity.Permission{ID: id, Code: module + ":" + action, Name: action + " " + module, Module: module, Action: action}
}

// AddRole registra un rol activo con permisos.
func (s *Store) AddRole(id, code string, permissionIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.roles[id] = entity.Role{ID: id, Code: code, Name: code, Active: true}
	s.st.rolePerms[id] = append([]string(nil), permissionIDs...)
}

// AddUser registra un usuario con hash y roles.
func (s *Store) AddUser(id, email, passwordHash string, active bool, roleIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.st.users[id] = entity.User{ID: id, FirstName: id, Email: email, PasswordHash: passwordHash, Active: active, CreatedAt: now, UpdatedAt: now}
	s.st.userRoles[id] = append([]string(nil), roleIDs...)
}

// StockOf devuelve stock_actual sin pasar por los repos.
func (s *Store) StockOf(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.products[productID].StockActual
}

// SetStock fuerza stock_actual sin registrar movimiento, para simular desalineación.
func (s *Store) SetStock(productID string, stock int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.st.products[productID]
	p.StockActual = stock
	s.st.products[productID] = p
}

// MovementCount número total de movimientos.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.movements)
}

func duplicate(msg string) error { return domain.NewError(domain.ErrDuplicate, msg) }

var errMissing = errors.New("memstore: fila inexistente")

func paginate[T any](items []T, p repository.Page) []T {
	if p.Offset > len(items) {
		return []T{}
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
