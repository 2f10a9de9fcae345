package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

var (
	_ repository.RoleRepository         = (*RoleRepo)(nil)
	_ repository.PermissionRepository   = (*PermissionRepo)(nil)
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)
)

// RoleRepo roles en memoria.
type RoleRepo struct{ s *Store }

func (r *RoleRepo) Create(_ context.Context, role *entity.Role, permissionIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.roles {
		if x.Code == role.Code {
			return duplicate("código de rol duplicado")
		}
	}
	stored := *role
	stored.Permissions = nil
	r.s.st.roles[role.ID] = stored
	r.s.st.rolePerms[role.ID] = append([]string(nil), permissionIDs...)
	return nil
}

func (r *RoleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.load(id), nil
}

func (r *RoleRepo) GetByCode(_ context.Context, code string) (*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, x := range r.s.st.roles {
		if x.Code == code {
			return r.load(id), nil
		}
	}
	return nil, nil
}

func (r *RoleRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Role, 0, len(ids))
	for _, id := range ids {
		if role := r.load(id); role != nil {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *RoleRepo) List(_ context.Context, includeInactive bool) ([]*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Role
	for _, id := range sortedKeys(r.s.st.roles) {
		if role := r.load(id); includeInactive || role.Active {
			out = append(out, role)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RoleRepo) Update(_ context.Context, role *entity.Role, permissionIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.roles[role.ID]; !ok {
		return errMissing
	}
	stored := *role
	stored.Permissions = nil
	r.s.st.roles[role.ID] = stored
	if permissionIDs != nil {
		r.s.st.rolePerms[role.ID] = append([]string(nil), permissionIDs...)
	}
	return nil
}

func (r *RoleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.roles, id)
	delete(r.s.st.rolePerms, id)
	return nil
}

func (r *RoleRepo) CountUsers(_ context.Context, roleID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, roles := range r.s.st.userRoles {
		for _, id := range roles {
			if id == roleID {
				n++
			}
		}
	}
	return n, nil
}

func (r *RoleRepo) ListActiveByUser(_ context.Context, userID string) ([]*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.RoleLoads++
	var out []*entity.Role
	for _, id := range r.s.st.userRoles[userID] {
		if role := r.load(id); role != nil && role.Active {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *RoleRepo) load(id string) *entity.Role {
	role, ok := r.s.st.roles[id]
	if !ok {
		return nil
	}
	role.Permissions = nil
	for _, pid := range r.s.st.rolePerms[id] {
		if p, ok := r.s.st.permissions[pid]; ok {
			role.Permissions = append(role.Permissions, p)
		}
	}
	return &role
}

// PermissionRepo catálogo de permisos en memoria.
type PermissionRepo struct{ s *Store }

func (r *PermissionRepo) List(_ context.Context) ([]*entity.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Permission
	for _, id := range sortedKeys(r.s.st.permissions) {
		p := r.s.st.permissions[id]
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Action < out[j].Action
	})
	return out, nil
}

func (r *PermissionRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Permission, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.st.permissions[id]; ok {
			out = append(out, &p)
		}
	}
	return out, nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User, roleIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.users {
		if strings.EqualFold(x.Email, u.Email) {
			return duplicate("email duplicado")
		}
	}
	stored := *u
	stored.Roles = nil
	r.s.st.users[u.ID] = stored
	r.s.st.userRoles[u.ID] = append([]string(nil), roleIDs...)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.load(id), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			return r.load(id), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.User
	for _, id := range sortedKeys(r.s.st.users) {
		u := r.s.st.users[id]
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName+" "+u.Email), search) {
			continue
		}
		out = append(out, r.load(id))
	}
	return paginate(out, f.Page), int64(len(out)), nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User, roleIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.users[u.ID]
	if !ok {
		return errMissing
	}
	for id, x := range r.s.st.users {
		if id != u.ID && strings.EqualFold(x.Email, u.Email) {
			return duplicate("email duplicado")
		}
	}
	stored := *u
	stored.Roles = nil
	stored.PasswordHash = cur.PasswordHash
	r.s.st.users[u.ID] = stored
	if roleIDs != nil {
		r.s.st.userRoles[u.ID] = append([]string(nil), roleIDs...)
	}
	return nil
}

func (r *UserRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.mutate(id, func(u *entity.User) { u.Active = active })
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return r.mutate(id, func(u *entity.User) { u.PasswordHash = hash })
}

func (r *UserRepo) TouchLastAccess(_ context.Context, id string, at time.Time) error {
	return r.mutate(id, func(u *entity.User) { u.LastAccessAt = &at })
}

func (r *UserRepo) mutate(id string, fn func(*entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&u)
	r.s.st.users[id] = u
	return nil
}

func (r *UserRepo) load(id string) *entity.User {
	u, ok := r.s.st.users[id]
	if !ok {
		return nil
	}
	u.Roles = nil
	for _, rid := range r.s.st.userRoles[id] {
		if role, ok := r.s.st.roles[rid]; ok {
			u.Roles = append(u.Roles, role)
		}
	}
	return &u
}

// RefreshTokenRepo refresh tokens en memoria.
type RefreshTokenRepo struct{ s *Store }

func (r *RefreshTokenRepo) Create(_ context.Context, t *entity.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.refreshTokens[t.ID] = *t
	return nil
}

func (r *RefreshTokenRepo) GetByID(_ context.Context, id string) (*entity.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.st.refreshTokens[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *RefreshTokenRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.refreshTokens, id)
	return nil
}

func (r *RefreshTokenRepo) DeleteByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.st.refreshTokens {
		if t.UserID == userID {
			delete(r.s.st.refreshTokens, id)
		}
	}
	return nil
}

// RefreshTokenCount número de refresh tokens vigentes del usuario.
func (s *Store) RefreshTokenCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.st.refreshTokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}
