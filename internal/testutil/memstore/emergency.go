package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var (
	_ repository.DisasterTypeRepository   = (*DisasterTypeRepo)(nil)
	_ repository.EmergencyEventRepository = (*EventRepo)(nil)
	_ repository.AffectedZoneRepository   = (*ZoneRepo)(nil)
)

// DisasterTypeRepo tipos de desastre en memoria.
type DisasterTypeRepo struct{ s *Store }

func (r *DisasterTypeRepo) Create(_ context.Context, d *entity.DisasterType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.disasterTypes {
		if x.Code == d.Code {
			return duplicate("código de tipo de desastre duplicado")
		}
	}
	r.s.st.disasterTypes[d.ID] = *d
	return nil
}

func (r *DisasterTypeRepo) GetByID(_ context.Context, id string) (*entity.DisasterType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.st.disasterTypes[id]
	if !ok {
		return nil, nil
	}
	return r.withCount(d), nil
}

func (r *DisasterTypeRepo) GetByCode(_ context.Context, code string) (*entity.DisasterType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.st.disasterTypes {
		if d.Code == code {
			return r.withCount(d), nil
		}
	}
	return nil, nil
}

func (r *DisasterTypeRepo) Update(_ context.Context, d *entity.DisasterType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.disasterTypes[d.ID]; !ok {
		return errMissing
	}
	r.s.st.disasterTypes[d.ID] = *d
	return nil
}

func (r *DisasterTypeRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.st.disasterTypes[id]
	if !ok {
		return errMissing
	}
	d.Active = active
	r.s.st.disasterTypes[id] = d
	return nil
}

func (r *DisasterTypeRepo) List(_ context.Context, includeInactive bool) ([]*entity.DisasterType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DisasterType
	for _, id := range sortedKeys(r.s.st.disasterTypes) {
		d := r.s.st.disasterTypes[id]
		if includeInactive || d.Active {
			out = append(out, r.withCount(d))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *DisasterTypeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.st.events {
		if e.DisasterTypeID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.st.disasterTypes, id)
	return nil
}

func (r *DisasterTypeRepo) withCount(d entity.DisasterType) *entity.DisasterType {
	d.EventsCount = 0
	for _, e := range r.s.st.events {
		if e.DisasterTypeID == d.ID {
			d.EventsCount++
		}
	}
	return &d
}

// EventRepo eventos de emergencia en memoria.
type EventRepo struct{ s *Store }

func (r *EventRepo) Create(_ context.Context, e *entity.EmergencyEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.disasterTypes[e.DisasterTypeID]; !ok {
		return domain.ErrConflict
	}
	ev := *e
	ev.DisasterType = nil
	r.s.st.events[e.ID] = ev
	return nil
}

func (r *EventRepo) GetByID(_ context.Context, id string) (*entity.EmergencyEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.st.events[id]
	if !ok {
		return nil, nil
	}
	return r.hydrate(e), nil
}

func (r *EventRepo) Update(_ context.Context, e *entity.EmergencyEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.events[e.ID]; !ok {
		return errMissing
	}
	ev := *e
	ev.DisasterType = nil
	r.s.st.events[e.ID] = ev
	return nil
}

func (r *EventRepo) List(_ context.Context, includeInactive bool) ([]*entity.EmergencyEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.EmergencyEvent
	for _, id := range sortedKeys(r.s.st.events) {
		e := r.s.st.events[id]
		if includeInactive || e.Status == entity.EventActive {
			out = append(out, r.hydrate(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *EventRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, z := range r.s.st.zones {
		if z.EventID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.st.events, id)
	return nil
}

func (r *EventRepo) hydrate(e entity.EmergencyEvent) *entity.EmergencyEvent {
	if t, ok := r.s.st.disasterTypes[e.DisasterTypeID]; ok {
		e.DisasterType = &t
	}
	e.ZonesCount = 0
	for _, z := range r.s.st.zones {
		if z.EventID == e.ID {
			e.ZonesCount++
		}
	}
	return &e
}

// ZoneRepo zonas afectadas en memoria.
type ZoneRepo struct{ s *Store }

func (r *ZoneRepo) Create(_ context.Context, z *entity.AffectedZone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.events[z.EventID]; !ok {
		return domain.ErrConflict
	}
	zone := *z
	zone.Event = nil
	r.s.st.zones[z.ID] = zone
	return nil
}

func (r *ZoneRepo) GetByID(_ context.Context, id string) (*entity.AffectedZone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	z, ok := r.s.st.zones[id]
	if !ok {
		return nil, nil
	}
	return r.hydrate(z), nil
}

func (r *ZoneRepo) Update(_ context.Context, z *entity.AffectedZone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.zones[z.ID]; !ok {
		return errMissing
	}
	zone := *z
	zone.Event = nil
	r.s.st.zones[z.ID] = zone
	return nil
}

func (r *ZoneRepo) List(_ context.Context, eventID string) ([]*entity.AffectedZone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AffectedZone
	for _, id := range sortedKeys(r.s.st.zones) {
		z := r.s.st.zones[id]
		if eventID == "" || z.EventID == eventID {
			out = append(out, r.hydrate(z))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ZoneRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.zones, id)
	return nil
}

func (r *ZoneRepo) hydrate(z entity.AffectedZone) *entity.AffectedZone {
	if e, ok := r.s.st.events[z.EventID]; ok {
		z.Event = &e
	}
	return &z
}
