package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/auth"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
)

// UserUseCase administración de usuarios y sus roles.
type UserUseCase struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	refreshRepo repository.RefreshTokenRepository
	cache       AccessCache
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	refreshRepo repository.RefreshTokenRepository,
	cache AccessCache,
) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, roleRepo: roleRepo, refreshRepo: refreshRepo, cache: cache}
}

// List lista usuarios paginados.
func (uc *UserUseCase) List(ctx context.Context, in dto.UserFilterRequest) ([]dto.UserResponse, *dto.Pagination, error) {
	in.DefaultPage()
	filter := repository.UserFilter{
		Search: strings.TrimSpace(in.Search),
		Page:   repository.Page{Limit: in.Limit, Offset: in.Offset()},
	}
	if in.Active != "" {
		active, err := strconv.ParseBool(in.Active)
		if err != nil {
			return nil, nil, domain.NewError(domain.ErrInvalidInput, "activo debe ser true o false")
		}
		filter.Active = &active
	}
	users, total, err := uc.userRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, auth.ToUserResponse(u))
	}
	return items, dto.NewPagination(in.PageRequest, total), nil
}

// GetByID obtiene un usuario.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := auth.ToUserResponse(u)
	return &resp, nil
}

// Create crea un usuario con los roles indicados.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := auth.ValidateNewUser(in.FirstName, in.LastName, in.Email, in.Password); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewError(domain.ErrDuplicate, "El email ya está registrado")
	}
	roleIDs, err := uc.ensureRoles(ctx, in.RoleIDs)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		Phone:        in.Phone,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, u, roleIDs); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewError(domain.ErrDuplicate, "El email ya está registrado")
		}
		return nil, err
	}
	return uc.GetByID(ctx, u.ID)
}

// Update actualiza datos y, si se envían, los roles del usuario. actorID no puede desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		if err := auth.ValidateEmail(*in.Email); err != nil {
			return nil, err
		}
		email := strings.TrimSpace(*in.Email)
		if !strings.EqualFold(email, u.Email) {
			other, err := uc.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != u.ID {
				return nil, domain.NewError(domain.ErrDuplicate, "El email ya está registrado")
			}
		}
		u.Email = email
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	deactivated := false
	if in.Active != nil {
		if !*in.Active && id == actorID {
			return nil, domain.NewError(domain.ErrForbidden, "No puede desactivar su propio usuario")
		}
		deactivated = u.Active && !*in.Active
		u.Active = *in.Active
	}
	var roleIDs []string
	if in.RoleIDs != nil {
		if roleIDs, err = uc.ensureRoles(ctx, *in.RoleIDs); err != nil {
			return nil, err
		}
	}
	u.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, u, roleIDs); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewError(domain.ErrDuplicate, "El email ya está registrado")
		}
		return nil, err
	}
	if deactivated {
		if err := uc.refreshRepo.DeleteByUser(ctx, id); err != nil {
			return nil, err
		}
	}
	uc.cache.Invalidate(id)
	return uc.GetByID(ctx, id)
}

// ToggleActive invierte el estado del usuario; al desactivar revoca sus refresh tokens.
func (uc *UserUseCase) ToggleActive(ctx context.Context, actorID, id string) (*dto.ToggleActiveResponse, error) {
	u, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Active && id == actorID {
		return nil, domain.NewError(domain.ErrForbidden, "No puede desactivar su propio usuario")
	}
	if err := uc.userRepo.SetActive(ctx, id, !u.Active); err != nil {
		return nil, err
	}
	if u.Active {
		if err := uc.refreshRepo.DeleteByUser(ctx, id); err != nil {
			return nil, err
		}
	}
	uc.cache.Invalidate(id)
	return &dto.ToggleActiveResponse{ID: id, Active: !u.Active}, nil
}

func (uc *UserUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Usuario no encontrado")
	}
	return u, nil
}

func (uc *UserUseCase) ensureRoles(ctx context.Context, ids []string) ([]string, error) {
	uniq := dedup(ids)
	if len(uniq) == 0 {
		return []string{}, nil
	}
	found, err := uc.roleRepo.GetByIDs(ctx, uniq)
	if err != nil {
		return nil, err
	}
	if len(found) != len(uniq) {
		return nil, domain.NewError(domain.ErrInvalidInput, "Uno o más roles no existen")
	}
	return uniq, nil
}
