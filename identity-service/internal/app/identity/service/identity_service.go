package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staybnb/identity-service/internal/app/identity/entity"
	"staybnb/identity-service/internal/app/identity/repository"
	"staybnb/identity-service/internal/app/identity/util"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
)

// IdentityService регистрирует пользователей, выпускает токены
// и сопоставляет учетные данные с ролью Guest или Host
type IdentityService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtManager *util.JWTManager
}

func NewIdentityService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
) *IdentityService {
	return &IdentityService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
	}
}

// Register регистрирует нового пользователя с выбранной ролью
func (s *IdentityService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return nil, apperror.InvalidState("Role must be Guest or Host")
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Параллельная регистрация с тем же email
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", role.String()).
		Msg("User registered")

	return s.authResponse(ctx, user)
}

// Login выполняет вход пользователя
func (s *IdentityService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(ctx, user)
}

// RefreshTokens меняет refresh токен на новую пару, старый токен одноразовый
func (s *IdentityService) RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.generateTokenPair(ctx, user)
}

// Logout отзывает access токен и удаляет refresh токены.
// Без refreshToken удаляются все сессии пользователя.
func (s *IdentityService) Logout(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string) error {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err == nil {
		if err := s.tokenRepo.AddToBlacklist(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}

	if refreshToken != "" {
		if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to delete refresh token: %w", err)
		}
		return nil
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}
	return nil
}

// GetCurrentUser возвращает профиль пользователя
func (s *IdentityService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Lookup возвращает {id, role} пользователя по id
func (s *IdentityService) Lookup(ctx context.Context, id string) (auth.Identity, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return auth.Anonymous, apperror.NotFound("User not found")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Anonymous, apperror.NotFound("User not found")
		}
		return auth.Anonymous, fmt.Errorf("failed to lookup user: %w", err)
	}

	return user.Identity(), nil
}

// Resolve сопоставляет access токен с пользователем и ролью.
// В отличие от локальной проверки подписи учитывает отозванные токены.
func (s *IdentityService) Resolve(ctx context.Context, credential string) (auth.Identity, error) {
	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, credential)
	if err != nil {
		return auth.Anonymous, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return auth.Anonymous, ErrTokenBlacklisted
	}

	claims, err := s.jwtManager.ValidateToken(credential)
	if err != nil {
		return auth.Anonymous, err
	}

	role, err := auth.ParseRole(claims.Role)
	if err != nil {
		return auth.Anonymous, auth.ErrInvalidToken
	}

	return auth.Identity{UserID: claims.UserID, Role: role}, nil
}

// ProfileFetcher загружает профиль пользователя заданной роли для разрешения ссылок.
// Пользователь с другой ролью считается отсутствующим.
func (s *IdentityService) ProfileFetcher(role auth.Role) func(ctx context.Context, key string) (*entity.Profile, error) {
	return func(ctx context.Context, key string) (*entity.Profile, error) {
		userID, err := uuid.Parse(key)
		if err != nil {
			return nil, nil
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user.Role != role {
			return nil, nil
		}

		return &entity.Profile{
			Typename: role.String(),
			ID:       user.ID,
			Name:     user.Name,
			Role:     user.Role,
		}, nil
	}
}

// RegisterEntities регистрирует типы Guest и Host в таблице разрешения ссылок
func (s *IdentityService) RegisterEntities(resolver *federation.Resolver) {
	resolver.
		Register(federation.TypeGuest, federation.Fetcher(s.ProfileFetcher(auth.RoleGuest))).
		Register(federation.TypeHost, federation.Fetcher(s.ProfileFetcher(auth.RoleHost)))
}

func (s *IdentityService) authResponse(ctx context.Context, user *entity.User) (*entity.AuthResponse, error) {
	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &entity.AuthResponse{User: *user, Tokens: *tokens}, nil
}

// generateTokenPair генерирует пару токенов (access + refresh)
func (s *IdentityService) generateTokenPair(ctx context.Context, user *entity.User) (*entity.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.jwtManager.RefreshTokenDuration())
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenDuration().Seconds()),
	}, nil
}
