package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/access"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/dto"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/entity"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/repository"
	"github.com/jhoicas/ayuda-humanitaria-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret          string
	ExpMinutes      int
	RefreshExpHours int
	Issuer          string
}

// PermissionResolver parte del resolvedor de acceso que usa auth.
type PermissionResolver interface {
	EffectivePermissions(ctx context.Context, userID string) (*access.EffectiveAccess, error)
	Invalidate(userID string)
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	refreshRepo repository.RefreshTokenRepository
	resolver    PermissionResolver
	jwtCfg      JWTConfig
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	refreshRepo repository.RefreshTokenRepository,
	resolver PermissionResolver,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		refreshRepo: refreshRepo,
		resolver:    resolver,
		jwtCfg:      jwtCfg,
		now:         time.Now,
	}
}

var errInvalidCredentials = domain.NewError(domain.ErrUnauthorized, "Credenciales inválidas")

// Login verifica email/password, emite access + refresh token y registra el último acceso.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "email y password son obligatorios")
	}
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if !user.Active {
		return nil, domain.NewError(domain.ErrUnauthorized, "Usuario inactivo")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	roles := user.RoleCodes()
	pair, err := uc.issue(ctx, user, roles)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.TouchLastAccess(ctx, user.ID, uc.now()); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User: dto.AuthUser{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Roles:     roles,
		},
	}, nil
}

// Register crea un usuario (solo ADMIN llega aquí). RoleCode opcional debe existir.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := ValidateNewUser(in.FirstName, in.LastName, in.Email, in.Password); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewError(domain.ErrDuplicate, "El email ya está registrado")
	}

	var roleIDs []string
	var roles []entity.Role
	if in.RoleCode != "" {
		role, err := uc.roleRepo.GetByCode(ctx, in.RoleCode)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, domain.NewError(domain.ErrInvalidInput, "Rol no encontrado: "+in.RoleCode)
		}
		roleIDs = []string{role.ID}
		roles = []entity.Role{*role}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        strings.TrimSpace(in.Email),
		Phone:        in.Phone,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user, roleIDs); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewError(domain.ErrDuplicate, "El email ya está registrado")
		}
		return nil, err
	}
	user.Roles = roles
	resp := ToUserResponse(user)
	return &resp, nil
}

// Refresh valida el refresh token, lo rota (borra el usado y emite uno nuevo) y devuelve un nuevo par.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := jwt.ParseRefresh(uc.jwtCfg.Secret, refreshToken)
	if err != nil {
		if jwt.IsExpired(err) {
			uc.deleteExpired(ctx, refreshToken)
			return nil, domain.NewError(domain.ErrUnauthorized, "Refresh token expirado")
		}
		return nil, domain.NewError(domain.ErrUnauthorized, "Refresh token inválido")
	}
	stored, err := uc.refreshRepo.GetByID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.UserID != claims.UserID {
		return nil, domain.NewError(domain.ErrUnauthorized, "Refresh token inválido")
	}
	if uc.now().After(stored.ExpiresAt) {
		_ = uc.refreshRepo.Delete(ctx, stored.ID)
		return nil, domain.NewError(domain.ErrUnauthorized, "Refresh token expirado")
	}

	user, err := uc.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.NewError(domain.ErrUnauthorized, "Usuario no encontrado o inactivo")
	}
	if err := uc.refreshRepo.Delete(ctx, stored.ID); err != nil {
		return nil, err
	}
	return uc.issue(ctx, user, user.RoleCodes())
}

// Logout elimina el refresh token presentado. Un token desconocido no es error.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	claims, err := jwt.ParseRefresh(uc.jwtCfg.Secret, refreshToken)
	if err != nil {
		return nil
	}
	return uc.refreshRepo.Delete(ctx, claims.ID)
}

// ChangePassword verifica la contraseña actual, guarda la nueva y revoca todos los refresh tokens.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < MinPasswordLength {
		return domain.NewError(domain.ErrInvalidInput, "La nueva contraseña debe tener al menos 8 caracteres")
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewError(domain.ErrNotFound, "Usuario no encontrado")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.NewError(domain.ErrInvalidInput, "La contraseña actual es incorrecta")
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	return uc.refreshRepo.DeleteByUser(ctx, userID)
}

// Profile devuelve el usuario con sus roles activos y permisos efectivos deduplicados.
func (uc *AuthUseCase) Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	ea, err := uc.resolver.EffectivePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := ea.User
	roles := make([]dto.RoleSummary, 0, len(ea.Roles))
	for _, r := range ea.Roles {
		roles = append(roles, dto.RoleSummary{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	return &dto.ProfileResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		Active:       u.Active,
		LastAccessAt: u.LastAccessAt,
		Roles:        roles,
		Permissions:  ea.Permissions.Codes(),
	}, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, user *entity.User, roles []string) (*dto.TokenPair, error) {
	accessToken, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, roles, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	tokenID := uuid.New().String()
	refresh, exp, err := jwt.GenerateRefresh(uc.jwtCfg.Secret, user.ID, tokenID, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpHours)
	if err != nil {
		return nil, err
	}
	if err := uc.refreshRepo.Create(ctx, &entity.RefreshToken{
		ID:        tokenID,
		UserID:    user.ID,
		ExpiresAt: exp,
		CreatedAt: uc.now(),
	}); err != nil {
		return nil, err
	}
	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refresh}, nil
}

func (uc *AuthUseCase) deleteExpired(ctx context.Context, token string) {
	if id := jwt.UnverifiedID(token); id != "" {
		_ = uc.refreshRepo.Delete(ctx, id)
	}
}
