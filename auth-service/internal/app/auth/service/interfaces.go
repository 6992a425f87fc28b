package service

import (
	"context"

	"bookhive/auth-service/internal/app/auth/entity"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Authenticate(ctx context.Context, req *entity.AuthenticateRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
}

type UserServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateUserRequest) (*entity.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.UserResponse, error)
	List(ctx context.Context, page, size int) (*entity.UserPageResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
