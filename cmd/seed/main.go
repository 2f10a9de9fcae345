// Command seed crea el esquema y carga el catálogo base: permisos, roles, tipos de desastre,
// categorías, unidades de medida y el administrador inicial. Es idempotente.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/auth"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/config"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/logger"
)

var (
	modules = []string{"emergencias", "inventario", "beneficiarios", "entregas", "configuracion", "seguridad"}
	actions = []string{"crear", "leer", "actualizar", "eliminar"}
)

type permissionSeed struct {
	Code, Name, Module, Action string
}

type roleSeed struct {
	Code, Name, Description string
	Grants                  func(module, action string) bool
}

var roleSeeds = []roleSeed{
	{"ADMIN", "Administrador", "Acceso total al sistema", func(string, string) bool { return true }},
	{"COORDINADOR", "Coordinador", "Gestión de emergencias, entregas, beneficiarios e inventario", func(m, _ string) bool {
		return m == "emergencias" || m == "entregas" || m == "beneficiarios" || m == "inventario"
	}},
	{"BODEGUERO", "Bodeguero", "Gestión de inventario y bodegas", func(m, _ string) bool {
		return m == "inventario" || m == "configuracion"
	}},
	{"DIGITADOR", "Digitador", "Registro de beneficiarios y entregas", func(m, a string) bool {
		return m == "beneficiarios" || m == "entregas" || (m == "emergencias" && a == "leer")
	}},
	{"CONSULTA", "Solo Consulta", "Acceso de solo lectura", func(_, a string) bool { return a == "leer" }},
}

var disasterTypeSeeds = [][3]string{
	{"INUNDACION", "Inundación", "Desbordamiento de ríos y cuerpos de agua"},
	{"TERREMOTO", "Terremoto", "Movimiento telúrico"},
	{"DESLIZAMIENTO", "Deslizamiento", "Deslizamiento de tierra"},
	{"INCENDIO", "Incendio", "Incendio forestal o estructural"},
	{"SEQUIA", "Sequía", "Falta prolongada de lluvia"},
	{"HURACAN", "Huracán", "Fenómeno atmosférico severo"},
}

var categorySeeds = [][3]string{
	{"ALIMENTOS", "Alimentos", "Productos alimenticios no perecederos"},
	{"HIGIENE", "Higiene", "Productos de aseo personal"},
	{"COBIJO", "Cobijo", "Carpas, mantas, colchonetas"},
	{"COCINA", "Cocina", "Utensilios de cocina"},
	{"AGUA", "Agua", "Agua potable y purificación"},
	{"MEDICAMENTOS", "Medicamentos", "Medicamentos básicos"},
}

var unitSeeds = [][3]string{
	{"UND", "Unidad", "und"},
	{"KG", "Kilogramo", "kg"},
	{"LT", "Litro", "lt"},
	{"MT", "Metro", "mt"},
	{"CAJA", "Caja", "caja"},
	{"PAQUETE", "Paquete", "paq"},
}

// permissionCatalog módulos × acciones con nombre legible ("Crear inventario").
func permissionCatalog() []permissionSeed {
	title := cases.Title(language.Spanish)
	out := make([]permissionSeed, 0, len(modules)*len(actions))
	for _, m := range modules {
		for _, a := range actions {
			out = append(out, permissionSeed{
				Code:   m + ":" + a,
				Name:   title.String(a) + " " + m,
				Module: m,
				Action: a,
			})
		}
	}
	return out
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	if cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD es obligatorio")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración")
	}

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return seed(ctx, tx, cfg.Seed, log)
	})
	if err != nil {
		log.Error().Err(err).Msg("seed fallido")
		os.Exit(1)
	}
	log.Info().Msg("seed completado")
}

func seed(ctx context.Context, tx pgx.Tx, cfg config.SeedConfig, log *logger.Logger) error {
	permIDs := make(map[string]string)
	for _, p := range permissionCatalog() {
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO permisos (id, codigo, nombre, modulo, accion) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (codigo) DO UPDATE SET nombre = EXCLUDED.nombre
			RETURNING id`, uuid.NewString(), p.Code, p.Name, p.Module, p.Action).Scan(&id)
		if err != nil {
			return fmt.Errorf("permiso %s: %w", p.Code, err)
		}
		permIDs[p.Code] = id
	}
	log.Info().Int("permisos", len(permIDs)).Msg("permisos cargados")

	roleIDs := make(map[string]string)
	for _, r := range roleSeeds {
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO roles (id, codigo, nombre, descripcion) VALUES ($1, $2, $3, $4)
			ON CONFLICT (codigo) DO UPDATE SET nombre = EXCLUDED.nombre, descripcion = EXCLUDED.descripcion
			RETURNING id`, uuid.NewString(), r.Code, r.Name, r.Description).Scan(&id)
		if err != nil {
			return fmt.Errorf("rol %s: %w", r.Code, err)
		}
		roleIDs[r.Code] = id
		for _, p := range permissionCatalog() {
			if !r.Grants(p.Module, p.Action) {
				continue
			}
			if _, err := tx.Exec(ctx, `INSERT INTO rol_permisos (rol_id, permiso_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				id, permIDs[p.Code]); err != nil {
				return fmt.Errorf("rol %s permiso %s: %w", r.Code, p.Code, err)
			}
		}
	}
	log.Info().Int("roles", len(roleIDs)).Msg("roles cargados")

	for _, d := range disasterTypeSeeds {
		if _, err := tx.Exec(ctx, `
			INSERT INTO tipos_desastre (id, codigo, nombre, descripcion) VALUES ($1, $2, $3, $4)
			ON CONFLICT (codigo) DO NOTHING`, uuid.NewString(), d[0], d[1], d[2]); err != nil {
			return fmt.Errorf("tipo de desastre %s: %w", d[0], err)
		}
	}
	for _, c := range categorySeeds {
		if _, err := tx.Exec(ctx, `
			INSERT INTO categorias (id, codigo, nombre, descripcion) VALUES ($1, $2, $3, $4)
			ON CONFLICT (codigo) DO NOTHING`, uuid.NewString(), c[0], c[1], c[2]); err != nil {
			return fmt.Errorf("categoría %s: %w", c[0], err)
		}
	}
	for _, u := range unitSeeds {
		if _, err := tx.Exec(ctx, `
			INSERT INTO unidades_medida (id, codigo, nombre, abreviatura) VALUES ($1, $2, $3, $4)
			ON CONFLICT (codigo) DO NOTHING`, uuid.NewString(), u[0], u[1], u[2]); err != nil {
			return fmt.Errorf("unidad %s: %w", u[0], err)
		}
	}

	return seedAdmin(ctx, tx, cfg, roleIDs[entity.RoleAdmin], log)
}

func seedAdmin(ctx context.Context, tx pgx.Tx, cfg config.SeedConfig, adminRoleID string, log *logger.Logger) error {
	var userID string
	err := tx.QueryRow(ctx, `SELECT id FROM usuarios WHERE lower(email) = lower($1)`, cfg.AdminEmail).Scan(&userID)
	switch {
	case err == nil:
		log.Info().Str("email", cfg.AdminEmail).Msg("administrador ya existe")
	case errors.Is(err, pgx.ErrNoRows):
		hash, herr := auth.HashPassword(cfg.AdminPassword)
		if herr != nil {
			return herr
		}
		userID = uuid.NewString()
		if _, err := tx.Exec(ctx, `
			INSERT INTO usuarios (id, nombres, apellidos, email, password_hash) VALUES ($1, $2, $3, $4, $5)`,
			userID, "Administrador", "Sistema", cfg.AdminEmail, hash); err != nil {
			return fmt.Errorf("crear administrador: %w", err)
		}
		log.Info().Str("email", cfg.AdminEmail).Msg("administrador creado")
	default:
		return fmt.Errorf("buscar administrador: %w", err)
	}
	_, err = tx.Exec(ctx, `INSERT INTO usuario_roles (usuario_id, rol_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, adminRoleID)
	if err != nil {
		return fmt.Errorf("asignar rol ADMIN: %w", err)
	}
	return nil
}
