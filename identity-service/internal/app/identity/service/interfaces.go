package service

import (
	"context"

	"github.com/google/uuid"

	"staybnb/identity-service/internal/app/identity/entity"
	"staybnb/pkg/auth"
)

// IdentityServiceInterface операции identity-service, которые использует HTTP слой
type IdentityServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	Lookup(ctx context.Context, id string) (auth.Identity, error)
	Resolve(ctx context.Context, credential string) (auth.Identity, error)
}
