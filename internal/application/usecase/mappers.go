package usecase

import (
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/inventory"
)

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID: c.ID, Code: c.Code, Name: c.Name, Description: c.Description, Active: c.Active, ProductsCount: c.ProductsCount,
	}
}

func toUnitResponse(u *entity.Unit) *dto.UnitResponse {
	if u == nil {
		return nil
	}
	return &dto.UnitResponse{
		ID: u.ID, Code: u.Code, Name: u.Name, Abbreviation: u.Abbreviation, Active: u.Active, ProductsCount: u.ProductsCount,
	}
}

// ToProductResponse convierte un producto a DTO con su stockStatus.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		UnitID:      p.UnitID,
		Category:    toCategoryResponse(p.Category),
		Unit:        toUnitResponse(p.Unit),
		StockMin:    p.StockMin,
		StockActual: p.StockActual,
		Perishable:  p.Perishable,
		ExpiresAt:   p.ExpiresAt,
		Active:      p.Active,
		StockStatus: string(inventory.ComputeStockStatus(p.StockActual, p.StockMin)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toWarehouseResponse(w *entity.Warehouse, movements int64) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:               w.ID,
		Code:             w.Code,
		Name:             w.Name,
		Address:          w.Address,
		Capacity:         w.Capacity,
		ResponsibleName:  w.ResponsibleName,
		ResponsibleEmail: w.ResponsibleEmail,
		ResponsiblePhone: w.ResponsiblePhone,
		Active:           w.Active,
		MovementsCount:   movements,
		CapacityUsed:     capacityUsed(movements, w.Capacity),
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:           m.ID,
		Type:         string(m.Type),
		ProductID:    m.ProductID,
		WarehouseID:  m.WarehouseID,
		Quantity:     m.Quantity,
		Date:         m.Date,
		Notes:        m.Notes,
		Source:       string(m.Source),
		RecordedByID: m.RecordedByID,
	}
	if m.Product != nil {
		p := ToProductResponse(m.Product)
		out.Product = &p
	}
	if m.Warehouse != nil {
		w := toWarehouseResponse(m.Warehouse, 0)
		out.Warehouse = &w
	}
	if m.RecordedBy != nil {
		out.RecordedBy = &dto.ActorSummary{ID: m.RecordedBy.ID, FirstName: m.RecordedBy.FirstName, LastName: m.RecordedBy.LastName}
	}
	return out
}

func toPermissionResponse(p *entity.Permission) dto.PermissionResponse {
	return dto.PermissionResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Module:      p.Module,
		Action:      p.Action,
		Description: p.Description,
	}
}

func toRoleResponse(r *entity.Role) dto.RoleResponse {
	perms := make([]dto.PermissionResponse, 0, len(r.Permissions))
	for i := range r.Permissions {
		perms = append(perms, toPermissionResponse(&r.Permissions[i]))
	}
	return dto.RoleResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		Permissions: perms,
	}
}

func toTotals(a entity.MovementAggregate) dto.MovementTotals {
	return dto.MovementTotals{
		ID:             a.Key,
		Name:           a.Name,
		TotalEntradas:  a.Entradas,
		TotalSalidas:   a.Salidas,
		TotalCantidad:  a.Balance(),
		TotalMovements: a.Count,
	}
}

func toDisasterTypeResponse(d *entity.DisasterType) dto.DisasterTypeResponse {
	return dto.DisasterTypeResponse{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		Active:      d.Active,
		EventsCount: d.EventsCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toEventResponse(e *entity.EmergencyEvent) dto.EventResponse {
	out := dto.EventResponse{
		ID:             e.ID,
		Name:           e.Name,
		DisasterTypeID: e.DisasterTypeID,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		Department:     e.Department,
		Municipality:   e.Municipality,
		Status:         string(e.Status),
		Description:    e.Description,
		ZonesCount:     e.ZonesCount,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.DisasterType != nil {
		out.DisasterType = &dto.DisasterTypeRef{ID: e.DisasterTypeID, Code: e.DisasterType.Code, Name: e.DisasterType.Name}
	}
	return out
}

func toZoneResponse(z *entity.AffectedZone) dto.ZoneResponse {
	out := dto.ZoneResponse{
		ID:                  z.ID,
		Name:                z.Name,
		EventID:             z.EventID,
		Coordinates:         z.Coordinates,
		ImpactLevel:         string(z.ImpactLevel),
		EstimatedPopulation: z.EstimatedPopulation,
		Description:         z.Description,
		CreatedAt:           z.CreatedAt,
		UpdatedAt:           z.UpdatedAt,
	}
	if z.Event != nil {
		out.Event = &dto.EventRef{ID: z.EventID, Name: z.Event.Name, Status: string(z.Event.Status)}
	}
	return out
}
