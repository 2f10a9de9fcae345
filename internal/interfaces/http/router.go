package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/auth"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/report"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/usecase"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
)

// Códigos de permiso usados por las rutas.
const (
	invRead   = "inventario:leer"
	invCreate = "inventario:crear"
	invUpdate = "inventario:actualizar"
	cfgRead   = "configuracion:leer"
	cfgCreate = "configuracion:crear"
	cfgUpdate = "configuracion:actualizar"
	emeRead   = "emergencias:leer"
	emeCreate = "emergencias:crear"
	emeUpdate = "emergencias:actualizar"
	secRead   = "seguridad:leer"
	secCreate = "seguridad:crear"
	secUpdate = "seguridad:actualizar"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	MovementUC  *usecase.MovementUseCase
	CatalogUC   *usecase.CatalogUseCase
	DisasterUC  *usecase.DisasterTypeUseCase
	EventUC     *usecase.EventUseCase
	ZoneUC      *usecase.ZoneUseCase
	RoleUC      *usecase.RoleUseCase
	UserUC      *usecase.UserUseCase
	Exporter    *report.Exporter
	Authorizer  authorizer
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authn := AuthMiddleware(deps.JWTSecret)
	perm := func(codes ...string) fiber.Handler { return RequirePermission(deps.Authorizer, codes...) }
	exact := func(module, action string) fiber.Handler {
		return RequireExactPermission(deps.Authorizer, module, action)
	}

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh-token", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/register", authn, RequireRole(deps.Authorizer, entity.RoleAdmin), authHandler.Register)
	authGroup.Post("/change-password", authn, authHandler.ChangePassword)
	authGroup.Get("/profile", authn, authHandler.Profile)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/productos", authn)
	products.Get("/", perm(invRead), productHandler.List)
	products.Post("/", perm(invCreate), productHandler.Create)
	products.Get("/:id", perm(invRead), productHandler.GetByID)
	products.Put("/:id", perm(invUpdate), productHandler.Update)
	products.Delete("/:id", exact("inventario", "eliminar"), productHandler.Delete)
	products.Patch("/:id/toggle-active", perm(invUpdate), productHandler.ToggleActive)
	products.Post("/:id/adjust-stock", perm(invUpdate), productHandler.AdjustStock)
	products.Get("/:id/verificar-stock", perm(invRead), productHandler.VerifyStock)

	// Movimientos (estadisticas antes de /:id)
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements := api.Group("/movimientos", authn)
	movements.Get("/", perm(invRead), movementHandler.List)
	movements.Get("/estadisticas", perm(invRead), movementHandler.Statistics)
	movements.Get("/:id", perm(invRead), movementHandler.GetByID)
	movements.Post("/", perm(invCreate), movementHandler.Create)
	movements.Delete("/:id", exact("inventario", "eliminar"), movementHandler.Delete)

	// Bodegas
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Exporter)
	warehouses := api.Group("/bodegas", authn)
	warehouses.Get("/", perm(invRead), warehouseHandler.List)
	warehouses.Post("/", perm(invCreate), warehouseHandler.Create)
	warehouses.Get("/:id", perm(invRead), warehouseHandler.GetByID)
	warehouses.Put("/:id", perm(invUpdate), warehouseHandler.Update)
	warehouses.Delete("/:id", exact("inventario", "eliminar"), warehouseHandler.Delete)
	warehouses.Patch("/:id/toggle-active", perm(invUpdate), warehouseHandler.ToggleActive)
	warehouses.Get("/:id/stock", perm(invRead), warehouseHandler.Stock)
	warehouses.Get("/:id/stock/export", perm(invRead), warehouseHandler.ExportStock)

	// Configuración. La lectura también la necesitan los formularios de inventario.
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	categories := api.Group("/categorias", authn)
	categories.Get("/", perm(cfgRead, invRead), catalogHandler.Categories)
	categories.Get("/:id", perm(cfgRead, invRead), catalogHandler.GetCategory)
	categories.Post("/", perm(cfgCreate), catalogHandler.CreateCategory)
	categories.Put("/:id", perm(cfgUpdate), catalogHandler.UpdateCategory)
	categories.Delete("/:id", exact("configuracion", "eliminar"), catalogHandler.DeleteCategory)
	categories.Patch("/:id/toggle-active", perm(cfgUpdate), catalogHandler.ToggleCategory)

	units := api.Group("/unidades", authn)
	units.Get("/", perm(cfgRead, invRead), catalogHandler.Units)
	units.Get("/:id", perm(cfgRead, invRead), catalogHandler.GetUnit)
	units.Post("/", perm(cfgCreate), catalogHandler.CreateUnit)
	units.Put("/:id", perm(cfgUpdate), catalogHandler.UpdateUnit)
	units.Delete("/:id", exact("configuracion", "eliminar"), catalogHandler.DeleteUnit)
	units.Patch("/:id/toggle-active", perm(cfgUpdate), catalogHandler.ToggleUnit)

	// Emergencias
	emergencyHandler := NewEmergencyHandler(deps.DisasterUC, deps.EventUC, deps.ZoneUC)
	disasterTypes := api.Group("/tipos-desastre", authn)
	disasterTypes.Get("/", perm(emeRead), emergencyHandler.ListDisasterTypes)
	disasterTypes.Get("/:id", perm(emeRead), emergencyHandler.GetDisasterType)
	disasterTypes.Post("/", perm(emeCreate), emergencyHandler.CreateDisasterType)
	disasterTypes.Put("/:id", perm(emeUpdate), emergencyHandler.UpdateDisasterType)
	disasterTypes.Delete("/:id", exact("emergencias", "eliminar"), emergencyHandler.DeleteDisasterType)
	disasterTypes.Patch("/:id/toggle-active", perm(emeUpdate), emergencyHandler.ToggleDisasterType)

	events := api.Group("/eventos", authn)
	events.Get("/", perm(emeRead), emergencyHandler.ListEvents)
	events.Get("/:id", perm(emeRead), emergencyHandler.GetEvent)
	events.Post("/", perm(emeCreate), emergencyHandler.CreateEvent)
	events.Put("/:id", perm(emeUpdate), emergencyHandler.UpdateEvent)
	events.Delete("/:id", exact("emergencias", "eliminar"), emergencyHandler.DeleteEvent)
	events.Patch("/:id/cerrar", perm(emeUpdate), emergencyHandler.CloseEvent)

	zones := api.Group("/zonas", authn)
	zones.Get("/", perm(emeRead), emergencyHandler.ListZones)
	zones.Get("/:id", perm(emeRead), emergencyHandler.GetZone)
	zones.Post("/", perm(emeCreate), emergencyHandler.CreateZone)
	zones.Put("/:id", perm(emeUpdate), emergencyHandler.UpdateZone)
	zones.Delete("/:id", exact("emergencias", "eliminar"), emergencyHandler.DeleteZone)

	// Roles (permisos antes de /:id)
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles := api.Group("/roles", authn)
	roles.Get("/", perm(secRead), roleHandler.List)
	roles.Get("/permisos", perm(secRead), roleHandler.Permissions)
	roles.Get("/:id", perm(secRead), roleHandler.GetByID)
	roles.Post("/", perm(secCreate), roleHandler.Create)
	roles.Put("/:id", perm(secUpdate), roleHandler.Update)
	roles.Delete("/:id", exact("seguridad", "eliminar"), roleHandler.Delete)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/usuarios", authn)
	users.Get("/", perm(secRead), userHandler.List)
	users.Get("/:id", perm(secRead), userHandler.GetByID)
	users.Post("/", perm(secCreate), userHandler.Create)
	users.Put("/:id", perm(secUpdate), userHandler.Update)
	users.Patch("/:id/toggle-active", perm(secUpdate), userHandler.ToggleActive)
}
