package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/access"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/auth"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/report"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/ayuda-humanitaria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/ayuda-humanitaria-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/ayuda-humanitaria-api/internal/interfaces/http"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/config"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	disasterTypeRepo := postgres.NewDisasterTypeRepository(pool)
	eventRepo := postgres.NewEmergencyEventRepository(pool)
	zoneRepo := postgres.NewAffectedZoneRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	permissionRepo := postgres.NewPermissionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	refreshRepo := postgres.NewRefreshTokenRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Libro de stock: única vía de escritura de stock_actual.
	ledger := inventory.NewLedger(txRunner, productRepo, warehouseRepo, movementRepo, log)

	resolver := access.NewResolver(userRepo, roleRepo, access.Config{
		CacheSize: cfg.Access.CacheSize,
		CacheTTL:  cfg.Access.CacheTTL(),
	}, log)

	exporter := report.NewExporter(ledger, map[report.Format]report.Renderer{
		report.FormatPDF:  infrapdf.NewStockReportRenderer(),
		report.FormatXLSX: infraxlsx.NewStockReportRenderer(),
	})

	authUC := auth.NewAuthUseCase(userRepo, roleRepo, refreshRepo, resolver, auth.JWTConfig{
		Secret:          cfg.JWT.Secret,
		ExpMinutes:      cfg.JWT.Expiration,
		RefreshExpHours: cfg.JWT.RefreshExpiration,
		Issuer:          cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ayuda Humanitaria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   usecase.NewProductUseCase(txRunner, ledger, productRepo, categoryRepo, unitRepo, movementRepo, cfg.Inventory.DefaultWarehouseID),
		WarehouseUC: usecase.NewWarehouseUseCase(warehouseRepo, movementRepo, ledger),
		MovementUC:  usecase.NewMovementUseCase(ledger),
		CatalogUC:   usecase.NewCatalogUseCase(categoryRepo, unitRepo),
		DisasterUC:  usecase.NewDisasterTypeUseCase(disasterTypeRepo),
		EventUC:     usecase.NewEventUseCase(eventRepo, disasterTypeRepo),
		ZoneUC:      usecase.NewZoneUseCase(zoneRepo, eventRepo),
		RoleUC:      usecase.NewRoleUseCase(roleRepo, permissionRepo, resolver),
		UserUC:      usecase.NewUserUseCase(userRepo, roleRepo, refreshRepo, resolver),
		Exporter:    exporter,
		Authorizer:  resolver,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
