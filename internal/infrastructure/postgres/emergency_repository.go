package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var (
	_ repository.DisasterTypeRepository   = (*DisasterTypeRepo)(nil)
	_ repository.EmergencyEventRepository = (*EmergencyEventRepo)(nil)
	_ repository.AffectedZoneRepository   = (*AffectedZoneRepo)(nil)
)

const (
	disasterTypeSelect = `
		SELECT t.id, t.codigo, t.nombre, t.descripcion, t.activo, t.created_at, t.updated_at,
		       (SELECT count(*) FROM eventos_emergencia e WHERE e.tipo_desastre_id = t.id)
		FROM tipos_desastre t`
	eventSelect = `
		SELECT e.id, e.nombre, e.tipo_desastre_id, e.fecha_inicio, e.fecha_fin, e.departamento, e.municipio,
		       e.estado, e.descripcion, e.created_at, e.updated_at,
		       t.codigo, t.nombre,
		       (SELECT count(*) FROM zonas_afectadas z WHERE z.evento_id = e.id)
		FROM eventos_emergencia e
		JOIN tipos_desastre t ON t.id = e.tipo_desastre_id`
	zoneSelect = `
		SELECT z.id, z.nombre, z.evento_id, z.coordenadas, z.nivel_afectacion, z.poblacion_estimada,
		       z.descripcion, z.created_at, z.updated_at,
		       e.nombre, e.estado
		FROM zonas_afectadas z
		JOIN eventos_emergencia e ON e.id = z.evento_id`
)

// DisasterTypeRepo tipos de desastre sobre PostgreSQL.
type DisasterTypeRepo struct {
	q Querier
}

// NewDisasterTypeRepository construye el adaptador.
func NewDisasterTypeRepository(q Querier) *DisasterTypeRepo {
	return &DisasterTypeRepo{q: q}
}

func (r *DisasterTypeRepo) Create(ctx context.Context, d *entity.DisasterType) error {
	query := `
		INSERT INTO tipos_desastre (id, codigo, nombre, descripcion, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, d.ID, d.Code, d.Name, d.Description, d.Active, d.CreatedAt, d.UpdatedAt); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert disaster type", err)
	}
	return nil
}

func (r *DisasterTypeRepo) GetByID(ctx context.Context, id string) (*entity.DisasterType, error) {
	return r.getOne(ctx, disasterTypeSelect+` WHERE t.id = $1`, id)
}

func (r *DisasterTypeRepo) GetByCode(ctx context.Context, code string) (*entity.DisasterType, error) {
	return r.getOne(ctx, disasterTypeSelect+` WHERE t.codigo = $1`, code)
}

func (r *DisasterTypeRepo) Update(ctx context.Context, d *entity.DisasterType) error {
	query := `UPDATE tipos_desastre SET codigo = $2, nombre = $3, descripcion = $4, activo = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, d.ID, d.Code, d.Name, d.Description, d.Active, d.UpdatedAt); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("update disaster type", err)
	}
	return nil
}

func (r *DisasterTypeRepo) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.q.Exec(ctx, `UPDATE tipos_desastre SET activo = $2, updated_at = now() WHERE id = $1`, id, active); err != nil {
		return wrapErr("set disaster type active", err)
	}
	return nil
}

func (r *DisasterTypeRepo) List(ctx context.Context, includeInactive bool) ([]*entity.DisasterType, error) {
	query := disasterTypeSelect
	if !includeInactive {
		query += ` WHERE t.activo`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY t.nombre`)
	if err != nil {
		return nil, wrapErr("list disaster types", err)
	}
	defer rows.Close()
	var list []*entity.DisasterType
	for rows.Next() {
		d, err := scanDisasterType(rows)
		if err != nil {
			return nil, wrapErr("scan disaster type", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete elimina el tipo. Con eventos asociados la FK responde ErrConflict.
func (r *DisasterTypeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM tipos_desastre WHERE id = $1`, id); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("delete disaster type", err)
	}
	return nil
}

func (r *DisasterTypeRepo) getOne(ctx context.Context, query string, arg any) (*entity.DisasterType, error) {
	d, err := scanDisasterType(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get disaster type", err)
	}
	return d, nil
}

func scanDisasterType(row scanner) (*entity.DisasterType, error) {
	var d entity.DisasterType
	if err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.Active, &d.CreatedAt, &d.UpdatedAt, &d.EventsCount); err != nil {
		return nil, err
	}
	return &d, nil
}

// EmergencyEventRepo eventos de emergencia sobre PostgreSQL.
type EmergencyEventRepo struct {
	q Querier
}

// NewEmergencyEventRepository construye el adaptador.
func NewEmergencyEventRepository(q Querier) *EmergencyEventRepo {
	return &EmergencyEventRepo{q: q}
}

func (r *EmergencyEventRepo) Create(ctx context.Context, e *entity.EmergencyEvent) error {
	query := `
		INSERT INTO eventos_emergencia (id, nombre, tipo_desastre_id, fecha_inicio, fecha_fin, departamento, municipio,
		                                estado, descripcion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.Name, e.DisasterTypeID, e.StartDate, e.EndDate, e.Department, e.Municipality,
		string(e.Status), e.Description, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert emergency event", err)
	}
	return nil
}

func (r *EmergencyEventRepo) GetByID(ctx context.Context, id string) (*entity.EmergencyEvent, error) {
	e, err := scanEvent(r.q.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get emergency event", err)
	}
	return e, nil
}

func (r *EmergencyEventRepo) Update(ctx context.Context, e *entity.EmergencyEvent) error {
	query := `
		UPDATE eventos_emergencia SET nombre = $2, tipo_desastre_id = $3, fecha_inicio = $4, fecha_fin = $5,
		       departamento = $6, municipio = $7, estado = $8, descripcion = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.Name, e.DisasterTypeID, e.StartDate, e.EndDate, e.Department, e.Municipality,
		string(e.Status), e.Description, e.UpdatedAt,
	)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("update emergency event", err)
	}
	return nil
}

func (r *EmergencyEventRepo) List(ctx context.Context, includeInactive bool) ([]*entity.EmergencyEvent, error) {
	query := eventSelect
	var args []any
	if !includeInactive {
		query += ` WHERE e.estado = $1`
		args = append(args, string(entity.EventActive))
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY e.created_at DESC`, args...)
	if err != nil {
		return nil, wrapErr("list emergency events", err)
	}
	defer rows.Close()
	var list []*entity.EmergencyEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, wrapErr("scan emergency event", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete elimina el evento. Con zonas asociadas la FK responde ErrConflict.
func (r *EmergencyEventRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM eventos_emergencia WHERE id = $1`, id); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("delete emergency event", err)
	}
	return nil
}

func scanEvent(row scanner) (*entity.EmergencyEvent, error) {
	var (
		e      entity.EmergencyEvent
		t      entity.DisasterType
		status string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.DisasterTypeID, &e.StartDate, &e.EndDate, &e.Department, &e.Municipality,
		&status, &e.Description, &e.CreatedAt, &e.UpdatedAt, &t.Code, &t.Name, &e.ZonesCount); err != nil {
		return nil, err
	}
	e.Status = entity.EventStatus(status)
	t.ID = e.DisasterTypeID
	e.DisasterType = &t
	return &e, nil
}

// AffectedZoneRepo zonas afectadas sobre PostgreSQL.
type AffectedZoneRepo struct {
	q Querier
}

// NewAffectedZoneRepository construye el adaptador.
func NewAffectedZoneRepository(q Querier) *AffectedZoneRepo {
	return &AffectedZoneRepo{q: q}
}

func (r *AffectedZoneRepo) Create(ctx context.Context, z *entity.AffectedZone) error {
	query := `
		INSERT INTO zonas_afectadas (id, nombre, evento_id, coordenadas, nivel_afectacion, poblacion_estimada,
		                             descripcion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		z.ID, z.Name, z.EventID, z.Coordinates, string(z.ImpactLevel), z.EstimatedPopulation,
		z.Description, z.CreatedAt, z.UpdatedAt,
	)
	if err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("insert affected zone", err)
	}
	return nil
}

func (r *AffectedZoneRepo) GetByID(ctx context.Context, id string) (*entity.AffectedZone, error) {
	z, err := scanZone(r.q.QueryRow(ctx, zoneSelect+` WHERE z.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get affected zone", err)
	}
	return z, nil
}

func (r *AffectedZoneRepo) Update(ctx context.Context, z *entity.AffectedZone) error {
	query := `
		UPDATE zonas_afectadas SET nombre = $2, coordenadas = $3, nivel_afectacion = $4, poblacion_estimada = $5,
		       descripcion = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		z.ID, z.Name, z.Coordinates, string(z.ImpactLevel), z.EstimatedPopulation, z.Description, z.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update affected zone", err)
	}
	return nil
}

func (r *AffectedZoneRepo) List(ctx context.Context, eventID string) ([]*entity.AffectedZone, error) {
	query := zoneSelect
	var args []any
	if eventID != "" {
		query += ` WHERE z.evento_id = $1`
		args = append(args, eventID)
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY z.nombre`, args...)
	if err != nil {
		return nil, wrapErr("list affected zones", err)
	}
	defer rows.Close()
	var list []*entity.AffectedZone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, wrapErr("scan affected zone", err)
		}
		list = append(list, z)
	}
	return list, rows.Err()
}

func (r *AffectedZoneRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM zonas_afectadas WHERE id = $1`, id); err != nil {
		if derr := mapWriteError(err); derr != nil {
			return derr
		}
		return wrapErr("delete affected zone", err)
	}
	return nil
}

func scanZone(row scanner) (*entity.AffectedZone, error) {
	var (
		z           entity.AffectedZone
		ev          entity.EmergencyEvent
		level       string
		eventStatus string
	)
	if err := row.Scan(&z.ID, &z.Name, &z.EventID, &z.Coordinates, &level, &z.EstimatedPopulation,
		&z.Description, &z.CreatedAt, &z.UpdatedAt, &ev.Name, &eventStatus); err != nil {
		return nil, err
	}
	z.ImpactLevel = entity.ImpactLevel(level)
	ev.ID = z.EventID
	ev.Status = entity.EventStatus(eventStatus)
	z.Event = &ev
	return &z, nil
}
