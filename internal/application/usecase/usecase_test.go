package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/usecase"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/testutil/memstore"
)

const (
	actorID   = "u-admin"
	central   = "bod-central"
	categoria = "cat-aseo"
	unidad    = "und"
)

type fixture struct {
	store      *memstore.Store
	ledger     *inventory.Ledger
	products   *usecase.ProductUseCase
	warehouses *usecase.WarehouseUseCase
	movements  *usecase.MovementUseCase
	roles      *usecase.RoleUseCase
	users      *usecase.UserUseCase
	cache      *cacheSpy
}

type cacheSpy struct {
	invalidated []string
	purges      int
}

func (c *cacheSpy) Invalidate(userID string) { c.invalidated = append(c.invalidated, userID) }
func (c *cacheSpy) Purge() { c.purges++ }

func newFixture(t *testing.T, defaultWarehouse string) *fixture {
	t.Helper()
	s := memstore.New()
	s.AddCategory(categoria, "ASEO")
	s.AddUnit(unidad, "UND")
	s.AddWarehouse(central, "CENTRAL")

	l := inventory.NewLedger(s.TxRunner(), s.Products(), s.Warehouses(), s.Movements(), nil)
	spy := &cacheSpy{}
	return &fixture{
		store:      s,
		ledger:     l,
		products:   usecase.NewProductUseCase(s.TxRunner(), l, s.Products(), s.Categories(), s.Units(), s.Movements(), defaultWarehouse),
		warehouses: usecase.NewWarehouseUseCase(s.Warehouses(), s.Movements(), l),
		movements:  usecase.NewMovementUseCase(l),
		roles:      usecase.NewRoleUseCase(s.Roles(), s.Permissions(), spy),
		users:      usecase.NewUserUseCase(s.Users(), s.Roles(), s.RefreshTokens(), spy),
		cache:      spy,
	}
}

func (f *fixture) createProduct(t *testing.T, code string, stock int64, warehouseID string) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), actorID, dto.CreateProductRequest{
		Code: code, Name: "Kit " + code, CategoryID: categoria, UnitID: unidad,
		StockMin: 10, StockActual: stock, WarehouseID: warehouseID,
	})
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_OpeningStockIsRecordedAsMovement(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	p := f.createProduct(t, "KIT-01", 40, central)
	assert.Equal(t, int64(40), p.StockActual)
	assert.Equal(t, "optimo", p.StockStatus)
	require.NotNil(t, p.MovementsCount)
	assert.Equal(t, int64(1), *p.MovementsCount)

	movs, err := f.movements.List(ctx, dto.MovementFilterRequest{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, string(entity.SourceOpening), movs[0].Source)
	assert.Equal(t, "entrada", movs[0].Type)
	assert.Equal(t, actorID, movs[0].RecordedByID)

	check, err := f.products.VerifyStock(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
}

func TestProductCreate_ZeroStockHasNoMovement(t *testing.T) {
	f := newFixture(t, "")
	p := f.createProduct(t, "KIT-02", 0, "")
	assert.Equal(t, int64(0), *p.MovementsCount)
	assert.Equal(t, "agotado", p.StockStatus)
}

func TestProductCreate_OpeningStockUsesDefaultWarehouse(t *testing.T) {
	f := newFixture(t, central)
	p := f.createProduct(t, "KIT-03", 5, "")

	movs, err := f.movements.List(context.Background(), dto.MovementFilterRequest{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, central, movs[0].WarehouseID)
}

func TestProductCreate_Rejections(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	f.createProduct(t, "DUP", 0, "")

	cases := []struct {
		name string
		in   dto.CreateProductRequest
		kind error
	}{
		{"sin nombre", dto.CreateProductRequest{Code: "X", CategoryID: categoria, UnitID: unidad}, domain.ErrInvalidInput},
		{"código duplicado", dto.CreateProductRequest{Code: "DUP", Name: "n", CategoryID: categoria, UnitID: unidad}, domain.ErrDuplicate},
		{"categoría inexistente", dto.CreateProductRequest{Code: "Y", Name: "n", CategoryID: "nope", UnitID: unidad}, domain.ErrInvalidInput},
		{"stock sin bodega", dto.CreateProductRequest{Code: "Z", Name: "n", CategoryID: categoria, UnitID: unidad, StockActual: 3}, domain.ErrInvalidInput},
		{"bodega inexistente", dto.CreateProductRequest{Code: "W", Name: "n", CategoryID: categoria, UnitID: unidad, StockActual: 3, WarehouseID: "nope"}, domain.ErrNotFound},
		{"stock negativo", dto.CreateProductRequest{Code: "V", Name: "n", CategoryID: categoria, UnitID: unidad, StockActual: -1}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.products.Create(ctx, actorID, tc.in)
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestProductUpdate_StockEditGoesThroughLedger(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	p := f.createProduct(t, "KIT-04", 40, central)

	newStock := int64(25)
	_, err := f.products.Update(ctx, actorID, p.ID, dto.UpdateProductRequest{StockActual: &newStock})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "requiere bodegaId")

	got, err := f.products.Update(ctx, actorID, p.ID, dto.UpdateProductRequest{StockActual: &newStock, WarehouseID: central})
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.StockActual)
	assert.Equal(t, int64(2), *got.MovementsCount)

	movs, err := f.movements.List(ctx, dto.MovementFilterRequest{ProductID: p.ID, Type: "salida"})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(15), movs[0].Quantity)
	assert.Equal(t, string(entity.SourceEdit), movs[0].Source)

	check, err := f.products.VerifyStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), check.StockLedger)
	assert.True(t, check.Consistent)
}

func TestProductUpdate_FieldsWithoutStockChange(t *testing.T) {
	f := newFixture(t, "")
	p := f.createProduct(t, "KIT-05", 0, "")

	name, min := "Kit de cocina", int64(3)
	got, err := f.products.Update(context.Background(), actorID, p.ID, dto.UpdateProductRequest{Name: &name, StockMin: &min})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, int64(3), got.StockMin)
	assert.Equal(t, int64(0), *got.MovementsCount)
}

func TestProductDelete_ConflictWithMovements(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	withMoves := f.createProduct(t, "KIT-06", 10, central)
	empty := f.createProduct(t, "KIT-07", 0, "")

	assert.ErrorIs(t, f.products.Delete(ctx, withMoves.ID), domain.ErrConflict)
	require.NoError(t, f.products.Delete(ctx, empty.ID))
	assert.ErrorIs(t, f.products.Delete(ctx, empty.ID), domain.ErrNotFound)
}

func TestProductAdjustStock(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	p := f.createProduct(t, "KIT-08", 12, central)

	res, err := f.products.AdjustStock(ctx, actorID, p.ID, dto.AdjustStockRequest{Quantity: 4, Type: "salida", WarehouseID: central})
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.StockActual)
	assert.Equal(t, "bajo", res.StockStatus)
	assert.Equal(t, string(entity.SourceAdjust), res.Movement.Source)
	assert.Equal(t, int64(12), *res.Movement.PreviousStock)

	_, err = f.products.AdjustStock(ctx, actorID, p.ID, dto.AdjustStockRequest{Quantity: 100, Type: "salida", WarehouseID: central})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestProductToggleActive(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	p := f.createProduct(t, "KIT-09", 0, "")

	res, err := f.products.ToggleActive(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, res.Active)

	list, _, err := f.products.List(ctx, dto.ProductFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, pg, err := f.products.List(ctx, dto.ProductFilterRequest{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), pg.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouse_CRUDAndCapacity(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	capacity := int64(4)

	w, err := f.warehouses.Create(ctx, dto.CreateWarehouseRequest{Code: "NORTE", Name: "Bodega Norte", Capacity: &capacity})
	require.NoError(t, err)
	assert.True(t, w.Active)
	assert.Equal(t, int64(0), *w.CapacityUsed)

	_, err = f.warehouses.Create(ctx, dto.CreateWarehouseRequest{Code: "NORTE", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	f.createProduct(t, "KIT-10", 10, w.ID)
	got, err := f.warehouses.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.MovementsCount)
	assert.Equal(t, int64(25), *got.CapacityUsed)

	assert.ErrorIs(t, f.warehouses.Delete(ctx, w.ID), domain.ErrConflict)

	res, err := f.warehouses.ToggleActive(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	active, err := f.warehouses.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1, "solo la bodega central")
}

func TestWarehouse_StockBreakdown(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	a := f.createProduct(t, "KIT-A", 30, central)
	b := f.createProduct(t, "KIT-B", 5, central)
	_, err := f.movements.Create(ctx, actorID, dto.CreateMovementRequest{Type: "salida", ProductID: a.ID, WarehouseID: central, Quantity: 12})
	require.NoError(t, err)
	_, err = f.movements.Create(ctx, actorID, dto.CreateMovementRequest{Type: "salida", ProductID: b.ID, WarehouseID: central, Quantity: 5})
	require.NoError(t, err)

	stock, err := f.warehouses.Stock(ctx, central)
	require.NoError(t, err)
	require.Len(t, stock.Rows, 1, "saldo cero se omite")
	row := stock.Rows[0]
	assert.Equal(t, a.ID, row.Product.ID)
	assert.Equal(t, int64(30), row.Entradas)
	assert.Equal(t, int64(12), row.Salidas)
	assert.Equal(t, int64(18), row.StockActual)
	assert.Equal(t, int64(4), stock.Warehouse.MovementsCount)

	_, err = f.warehouses.Stock(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovement_CreateAndRevert(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	p := f.createProduct(t, "KIT-11", 10, central)

	m, err := f.movements.Create(ctx, actorID, dto.CreateMovementRequest{Type: "entrada", ProductID: p.ID, WarehouseID: central, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(10), *m.PreviousStock)
	assert.Equal(t, int64(15), *m.NewStock)

	got, err := f.movements.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)

	rev, err := f.movements.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), rev.RevertedStock)
	assert.Equal(t, p.ID, rev.ProductID)

	_, err = f.movements.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovement_CreateRequiresActor(t *testing.T) {
	f := newFixture(t, "")
	p := f.createProduct(t, "KIT-12", 0, "")
	_, err := f.movements.Create(context.Background(), "", dto.CreateMovementRequest{Type: "entrada", ProductID: p.ID, WarehouseID: central, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovement_ListFilters(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	f.createProduct(t, "KIT-13", 10, central)

	today := time.Now().UTC().Format(time.DateOnly)
	movs, err := f.movements.List(ctx, dto.MovementFilterRequest{From: today, To: today})
	require.NoError(t, err)
	assert.Len(t, movs, 1, "fechaFin sin hora cubre el día completo")

	_, err = f.movements.List(ctx, dto.MovementFilterRequest{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.movements.List(ctx, dto.MovementFilterRequest{Type: "traslado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovement_Statistics(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	a := f.createProduct(t, "KIT-14", 20, central)
	f.createProduct(t, "KIT-15", 5, central)
	_, err := f.movements.Create(ctx, actorID, dto.CreateMovementRequest{Type: "salida", ProductID: a.ID, WarehouseID: central, Quantity: 8})
	require.NoError(t, err)

	st, err := f.movements.Statistics(ctx, dto.MovementFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(25), st.Summary.TotalEntradas)
	assert.Equal(t, int64(8), st.Summary.TotalSalidas)
	assert.Equal(t, int64(17), st.Summary.TotalCantidad)
	assert.Equal(t, int64(3), st.Summary.TotalMovements)
	require.Len(t, st.ByProduct, 2)
	assert.Equal(t, a.ID, st.ByProduct[0].ID, "ordenado por número de movimientos")
	require.Len(t, st.ByWarehouse, 1)
	assert.Equal(t, central, st.ByWarehouse[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles
// ──────────────────────────────────────────────────────────────────────────────

func seedSecurity(f *fixture) {
	f.store.AddPermission("p-inv-leer", "inventario", "leer")
	f.store.AddPermission("p-inv-crear", "inventario", "crear")
	f.store.AddPermission("p-seg-leer", "seguridad", "leer")
	f.store.AddRole("r-admin", entity.RoleAdmin)
	f.store.AddRole("r-consulta", "CONSULTA", "p-inv-leer")
	f.store.AddUser(actorID, "admin@ayuda.org", "x", true, "r-admin")
	f.store.AddUser("u-2", "consulta@ayuda.org", "x", true, "r-consulta")
}

func TestRole_CreateNormalizesAndValidatesPermissions(t *testing.T) {
	f := newFixture(t, "")
	seedSecurity(f)
	ctx := context.Background()

	r, err := f.roles.Create(ctx, dto.CreateRoleRequest{Code: " bodeguero ", Name: "Bodeguero", PermissionIDs: []string{"p-inv-crear", "p-inv-leer", "p-inv-leer"}})
	require.NoError(t, err)
	assert.Equal(t, "BODEGUERO", r.Code)
	assert.Len(t, r.Permissions, 2)

	_, err = f.roles.Create(ctx, dto.CreateRoleRequest{Code: "BODEGUERO", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = f.roles.Create(ctx, dto.CreateRoleRequest{Code: "X", Name: "X", PermissionIDs: []string{"p-nope"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRole_UpdatePurgesCache(t *testing.T) {
	f := newFixture(t, "")
	seedSecurity(f)
	ctx := context.Background()

	perms := []string{"p-inv-leer", "p-seg-leer"}
	r, err := f.roles.Update(ctx, "r-consulta", dto.UpdateRoleRequest{PermissionIDs: &perms})
	require.NoError(t, err)
	assert.Len(t, r.Permissions, 2)
	assert.Equal(t, 1, f.cache.purges)

	name := "Solo lectura"
	r, err = f.roles.Update(ctx, "r-consulta", dto.UpdateRoleRequest{Name: &name})
	require.NoError(t, err)
	assert.Len(t, r.Permissions, 2, "sin permisoIds se conservan")

	off := false
	_, err = f.roles.Update(ctx, "r-admin", dto.UpdateRoleRequest{Active: &off})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRole_Delete(t *testing.T) {
	f := newFixture(t, "")
	seedSecurity(f)
	f.store.AddRole("r-libre", "LIBRE")
	ctx := context.Background()

	assert.ErrorIs(t, f.roles.Delete(ctx, "r-admin"), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.roles.Delete(ctx, "r-consulta"), domain.ErrConflict)
	require.NoError(t, f.roles.Delete(ctx, "r-libre"))
	assert.ErrorIs(t, f.roles.Delete(ctx, "r-libre"), domain.ErrNotFound)
}

func TestRole_PermissionCatalogGrouped(t *testing.T) {
	f := newFixture(t, "")
	seedSecurity(f)

	cat, err := f.roles.Permissions(context.Background())
	require.NoError(t, err)
	assert.Len(t, cat.Permissions, 3)
	assert.Len(t, cat.Grouped["inventario"], 2)
	assert.Len(t, cat.Grouped["seguridad"], 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestUser_Create(t *testing.T) {
	f := newFixture(t, "")
	seedSecurity(f)
	ctx := context.Background()

	u, err := f.users.Create(ctx, dto.CreateUserRequest{
		FirstName: "Ana", LastName: "Ríos", Email: "ana@ayuda.org", Password: "Segura2024", RoleIDs: []string{"r-consulta"},
	})
	require.NoError(t, err)
	require.Len(t, u.Roles, 1)
	assert.Equal(t, "CONSULTA", u.Roles[0].Code)

	_, err = f.users.Create(ctx, dto.CreateUserRequest{FirstName: "B", LastName: "C", Email: "ANA@ayuda.org", Password: "Segura2024"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = f.users.Create(ctx, dto.CreateUserRequest{FirstName: "B", LastName: "C", Email: "b@ayuda.org", Password: "Segura2024", RoleIDs: []string{"r-nope"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.users.Create(ctx, dto.CreateUserRequest{FirstName: "B", LastName: "C", Email: "b@ayuda.org", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_List(t *testing.T) {
	f := newFixture(t, "")
	seedSecurity(f)
	f.store.AddUser("u-off", "off@ayuda.org", "x", false)

	all, pg, err := f.users.List(context.Background(), dto.UserFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), pg.Total)

	active, _, err := f.users.List(context.Background(), dto.UserFilterRequest{Active: "true"})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	_, _, err = f.users.List(context.Background(), dto.UserFilterRequest{Active: "quizas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_UpdateRolesInvalidatesCache(t *testing.T) {
	f := newFixture(t, "")
	seedSecurity(f)

	roles := []string{"r-consulta", "r-admin"}
	u, err := f.users.Update(context.Background(), actorID, "u-2", dto.UpdateUserRequest{RoleIDs: &roles})
	require.NoError(t, err)
	assert.Len(t, u.Roles, 2)
	assert.Equal(t, []string{"u-2"}, f.cache.invalidated)
}

func TestUser_DeactivateRevokesSessions(t *testing.T) {
	f := newFixture(t, "")
	seedSecurity(f)
	ctx := context.Background()
	require.NoError(t, f.store.RefreshTokens().Create(ctx, &entity.RefreshToken{ID: "rt-1", UserID: "u-2", ExpiresAt: time.Now().Add(time.Hour)}))

	_, err := f.users.ToggleActive(ctx, actorID, actorID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "no puede desactivarse a sí mismo")

	res, err := f.users.ToggleActive(ctx, actorID, "u-2")
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Zero(t, f.store.RefreshTokenCount("u-2"))
	assert.Contains(t, f.cache.invalidated, "u-2")

	res, err = f.users.ToggleActive(ctx, actorID, "u-2")
	require.NoError(t, err)
	assert.True(t, res.Active)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogos
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_ListsCategoriesAndUnits(t *testing.T) {
	f := newFixture(t, "")
	f.store.AddCategory("cat-alimentos", "ALIMENTOS")
	uc := usecase.NewCatalogUseCase(f.store.Categories(), f.store.Units())
	ctx := context.Background()

	cats, err := uc.Categories(ctx, false)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "ALIMENTOS", cats[0].Code)
	assert.Equal(t, "ASEO", cats[1].Code)

	units, err := uc.Units(ctx, false)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "UND", units[0].Code)
	assert.Equal(t, "und", units[0].Abbreviation)
}

func TestCatalog_CategoryCRUD(t *testing.T) {
	f := newFixture(t, "")
	uc := usecase.NewCatalogUseCase(f.store.Categories(), f.store.Units())
	ctx := context.Background()

	c, err := uc.CreateCategory(ctx, dto.CreateCategoryRequest{Code: " AGUA ", Name: "Agua"})
	require.NoError(t, err)
	assert.Equal(t, "AGUA", c.Code)
	assert.True(t, c.Active)

	_, err = uc.CreateCategory(ctx, dto.CreateCategoryRequest{Code: "AGUA", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.CreateCategory(ctx, dto.CreateCategoryRequest{Code: "SIN-NOMBRE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	taken := "ASEO"
	_, err = uc.UpdateCategory(ctx, c.ID, dto.UpdateCategoryRequest{Code: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	name := "Agua potable"
	got, err := uc.UpdateCategory(ctx, c.ID, dto.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Agua potable", got.Name)
	assert.Equal(t, "AGUA", got.Code)

	f.createProduct(t, "KIT-1", 0, "")
	used, err := uc.GetCategory(ctx, categoria)
	require.NoError(t, err)
	assert.Equal(t, int64(1), used.ProductsCount)
	err = uc.DeleteCategory(ctx, categoria)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "No se puede eliminar una categoría con productos asociados", domain.Message(err))

	res, err := uc.ToggleCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	active, err := uc.Categories(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	all, err := uc.Categories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, uc.DeleteCategory(ctx, c.ID))
	_, err = uc.GetCategory(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_UnitCRUD(t *testing.T) {
	f := newFixture(t, "")
	uc := usecase.NewCatalogUseCase(f.store.Categories(), f.store.Units())
	ctx := context.Background()

	kg, err := uc.CreateUnit(ctx, dto.CreateUnitRequest{Code: "KG", Name: "Kilogramo"})
	require.NoError(t, err)
	assert.Equal(t, "kg", kg.Abbreviation, "sin abreviatura se deriva del código")

	_, err = uc.CreateUnit(ctx, dto.CreateUnitRequest{Code: "UND", Name: "Unidad"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	abbr := "kilo"
	got, err := uc.UpdateUnit(ctx, kg.ID, dto.UpdateUnitRequest{Abbreviation: &abbr})
	require.NoError(t, err)
	assert.Equal(t, "kilo", got.Abbreviation)

	f.createProduct(t, "KIT-1", 0, "")
	assert.ErrorIs(t, uc.DeleteUnit(ctx, unidad), domain.ErrConflict)
	require.NoError(t, uc.DeleteUnit(ctx, kg.ID))

	_, err = uc.ToggleUnit(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Emergencias
// ──────────────────────────────────────────────────────────────────────────────

const inundacion = "td-inundacion"

type emergencyFixture struct {
	types  *usecase.DisasterTypeUseCase
	events *usecase.EventUseCase
	zones  *usecase.ZoneUseCase
}

func newEmergencyFixture(t *testing.T) *emergencyFixture {
	t.Helper()
	s := memstore.New()
	s.AddDisasterType(inundacion, "INUNDACION")
	return &emergencyFixture{
		types:  usecase.NewDisasterTypeUseCase(s.DisasterTypes()),
		events: usecase.NewEventUseCase(s.Events(), s.DisasterTypes()),
		zones:  usecase.NewZoneUseCase(s.Zones(), s.Events()),
	}
}

func (f *emergencyFixture) createEvent(t *testing.T, name string) *dto.EventResponse {
	t.Helper()
	e, err := f.events.Create(context.Background(), dto.CreateEventRequest{
		Name: name, DisasterTypeID: inundacion, StartDate: "2024-05-01", Department: "Chocó", Municipality: "Quibdó",
	})
	require.NoError(t, err)
	return e
}

func TestDisasterType_CRUD(t *testing.T) {
	f := newEmergencyFixture(t)
	ctx := context.Background()

	d, err := f.types.Create(ctx, dto.CreateDisasterTypeRequest{Code: "SEQUIA", Name: "Sequía"})
	require.NoError(t, err)
	assert.True(t, d.Active)

	_, err = f.types.Create(ctx, dto.CreateDisasterTypeRequest{Code: "SEQUIA", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "Ya existe un tipo de desastre con ese código", domain.Message(err))

	f.createEvent(t, "Inundación río Atrato")
	used, err := f.types.GetByID(ctx, inundacion)
	require.NoError(t, err)
	assert.Equal(t, int64(1), used.EventsCount)
	assert.ErrorIs(t, f.types.Delete(ctx, inundacion), domain.ErrConflict)

	res, err := f.types.ToggleActive(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	list, err := f.types.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.types.Delete(ctx, d.ID))
	_, err = f.types.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEvent_CreateRejections(t *testing.T) {
	f := newEmergencyFixture(t)

	cases := []struct {
		name string
		in   dto.CreateEventRequest
		msg  string
	}{
		{"sin nombre", dto.CreateEventRequest{DisasterTypeID: inundacion, StartDate: "2024-05-01"}, ""},
		{"sin fecha de inicio", dto.CreateEventRequest{Name: "E", DisasterTypeID: inundacion}, ""},
		{"tipo inexistente", dto.CreateEventRequest{Name: "E", DisasterTypeID: "td-x", StartDate: "2024-05-01"}, "Tipo de desastre no encontrado"},
		{"fecha mal formada", dto.CreateEventRequest{Name: "E", DisasterTypeID: inundacion, StartDate: "01/05/2024"}, ""},
		{"fin antes de inicio", dto.CreateEventRequest{Name: "E", DisasterTypeID: inundacion, StartDate: "2024-05-10", EndDate: "2024-05-01"},
			"La fecha de fin no puede ser anterior a la fecha de inicio"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.events.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, domain.Message(err))
			}
		})
	}
}

func TestEvent_CreateAndUpdate(t *testing.T) {
	f := newEmergencyFixture(t)
	ctx := context.Background()

	e := f.createEvent(t, "Inundación río Atrato")
	assert.Equal(t, "activo", e.Status)
	require.NotNil(t, e.DisasterType)
	assert.Equal(t, "INUNDACION", e.DisasterType.Code)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), e.StartDate)
	assert.Nil(t, e.EndDate)

	suspended := "SUSPENDIDO"
	got, err := f.events.Update(ctx, e.ID, dto.UpdateEventRequest{Status: &suspended})
	require.NoError(t, err)
	assert.Equal(t, "suspendido", got.Status)

	bogus := "archivado"
	_, err = f.events.Update(ctx, e.ID, dto.UpdateEventRequest{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	early := "2024-04-01"
	_, err = f.events.Update(ctx, e.ID, dto.UpdateEventRequest{EndDate: &early})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := "td-x"
	_, err = f.events.Update(ctx, e.ID, dto.UpdateEventRequest{DisasterTypeID: &missing})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.events.GetByID(ctx, "ev-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEvent_ListOnlyActiveByDefault(t *testing.T) {
	f := newEmergencyFixture(t)
	ctx := context.Background()

	open := f.createEvent(t, "Abierto")
	closed := f.createEvent(t, "Cerrado")
	_, err := f.events.Close(ctx, closed.ID)
	require.NoError(t, err)

	active, err := f.events.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	all, err := f.events.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEvent_Close(t *testing.T) {
	f := newEmergencyFixture(t)
	ctx := context.Background()
	e := f.createEvent(t, "Inundación río Atrato")

	before := time.Now()
	closed, err := f.events.Close(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "cerrado", closed.Status)
	require.NotNil(t, closed.EndDate)
	assert.False(t, closed.EndDate.Before(before))

	_, err = f.events.Close(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "El evento ya está cerrado", domain.Message(err))

	_, err = f.events.Close(ctx, "ev-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEvent_CloseBeforeStartKeepsDateOrder(t *testing.T) {
	f := newEmergencyFixture(t)
	ctx := context.Background()
	start := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	e, err := f.events.Create(ctx, dto.CreateEventRequest{Name: "Alerta", DisasterTypeID: inundacion, StartDate: start})
	require.NoError(t, err)
	closed, err := f.events.Close(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.StartDate, *closed.EndDate)
}

func TestEvent_DeleteWithZonesIsConflict(t *testing.T) {
	f := newEmergencyFixture(t)
	ctx := context.Background()
	e := f.createEvent(t, "Inundación río Atrato")

	z, err := f.zones.Create(ctx, dto.CreateZoneRequest{Name: "Barrio Kennedy", EventID: e.ID, ImpactLevel: "alto"})
	require.NoError(t, err)

	got, err := f.events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ZonesCount)

	err = f.events.Delete(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "No se puede eliminar un evento con zonas asociadas", domain.Message(err))

	require.NoError(t, f.zones.Delete(ctx, z.ID))
	require.NoError(t, f.events.Delete(ctx, e.ID))
}

func TestZone_CreateRejections(t *testing.T) {
	f := newEmergencyFixture(t)
	e := f.createEvent(t, "Inundación río Atrato")
	negative := int64(-1)

	cases := []struct {
		name string
		in   dto.CreateZoneRequest
		msg  string
	}{
		{"sin nombre", dto.CreateZoneRequest{EventID: e.ID, ImpactLevel: "alto"}, ""},
		{"sin evento", dto.CreateZoneRequest{Name: "Z", ImpactLevel: "alto"}, ""},
		{"nivel inválido", dto.CreateZoneRequest{Name: "Z", EventID: e.ID, ImpactLevel: "critico"}, "nivelAfectacion debe ser alto, medio o bajo"},
		{"población negativa", dto.CreateZoneRequest{Name: "Z", EventID: e.ID, ImpactLevel: "bajo", EstimatedPopulation: &negative}, ""},
		{"evento inexistente", dto.CreateZoneRequest{Name: "Z", EventID: "ev-x", ImpactLevel: "bajo"}, "Evento de emergencia no encontrado"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.zones.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, domain.Message(err))
			}
		})
	}
}

func TestZone_ClosedEventIsReadOnly(t *testing.T) {
	f := newEmergencyFixture(t)
	ctx := context.Background()
	e := f.createEvent(t, "Inundación río Atrato")
	population := int64(1200)

	z, err := f.zones.Create(ctx, dto.CreateZoneRequest{
		Name: "Barrio Kennedy", EventID: e.ID, ImpactLevel: "MEDIO", EstimatedPopulation: &population,
	})
	require.NoError(t, err)
	assert.Equal(t, "medio", z.ImpactLevel)
	require.NotNil(t, z.Event)
	assert.Equal(t, "Inundación río Atrato", z.Event.Name)

	level := "alto"
	got, err := f.zones.Update(ctx, z.ID, dto.UpdateZoneRequest{ImpactLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "alto", got.ImpactLevel)
	assert.Equal(t, int64(1200), *got.EstimatedPopulation)

	_, err = f.events.Close(ctx, e.ID)
	require.NoError(t, err)

	_, err = f.zones.Create(ctx, dto.CreateZoneRequest{Name: "Otra", EventID: e.ID, ImpactLevel: "bajo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "No se pueden agregar zonas a un evento cerrado", domain.Message(err))

	_, err = f.zones.Update(ctx, z.ID, dto.UpdateZoneRequest{ImpactLevel: &level})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "No se puede modificar una zona de un evento cerrado", domain.Message(err))
}

func TestZone_ListByEvent(t *testing.T) {
	f := newEmergencyFixture(t)
	ctx := context.Background()
	a := f.createEvent(t, "Evento A")
	b := f.createEvent(t, "Evento B")

	for _, in := range []dto.CreateZoneRequest{
		{Name: "Zona 2", EventID: a.ID, ImpactLevel: "bajo"},
		{Name: "Zona 1", EventID: a.ID, ImpactLevel: "alto"},
		{Name: "Zona 3", EventID: b.ID, ImpactLevel: "medio"},
	} {
		_, err := f.zones.Create(ctx, in)
		require.NoError(t, err)
	}

	onlyA, err := f.zones.List(ctx, dto.ZoneFilter{EventID: a.ID})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, "Zona 1", onlyA[0].Name)
	assert.Equal(t, "Zona 2", onlyA[1].Name)

	all, err := f.zones.List(ctx, dto.ZoneFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
