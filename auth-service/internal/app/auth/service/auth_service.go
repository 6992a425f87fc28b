package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookhive/auth-service/internal/app/auth/entity"
	"bookhive/auth-service/internal/app/auth/repository"
	"bookhive/auth-service/internal/app/auth/util"
	"bookhive/pkg/roles"
	"bookhive/pkg/token"

	"github.com/google/uuid"
)

// AuthService обрабатывает бизнес-логику аутентификации.
// Выпуск токенов не имеет побочных эффектов: refresh токены нигде
// не сохраняются, проверка полностью по подписи.
type AuthService struct {
	userRepo     repository.UserRepository
	tokenManager *token.Manager
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, tokenManager *token.Manager) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
	}
}

// Register регистрирует нового пользователя с ролью USER и сразу выдает токены
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         roles.User,
		CreatedAt:    time.Now(),
	}

	// Дубликат email ловим по уникальному ограничению, а не проверкой заранее
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildAuthResponse(user)
}

// Authenticate выполняет вход по email и паролю.
// Неизвестный email и неверный пароль дают одинаковую ошибку.
func (s *AuthService) Authenticate(ctx context.Context, req *entity.AuthenticateRequest) (*entity.AuthResponse, error) {
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

	return s.buildAuthResponse(user)
}

// RefreshTokens проверяет refresh токен и выпускает новую пару токенов.
// Старый refresh токен не отзывается и остается валидным до истечения exp.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	claims, err := s.tokenManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.issueTokenPair(user)
}

// buildAuthResponse собирает представление пользователя и пару токенов
func (s *AuthService) buildAuthResponse(user *entity.User) (*entity.AuthResponse, error) {
	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &entity.AuthResponse{
		User:   ToUserResponse(user),
		Tokens: *pair,
	}, nil
}

// issueTokenPair выпускает access токен с разрешениями роли и чистый refresh токен
func (s *AuthService) issueTokenPair(user *entity.User) (*entity.TokenPair, error) {
	accessToken, err := s.tokenManager.GenerateAccessToken(user.Email, roles.Permissions(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenManager.GenerateRefreshToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenManager.AccessTTL().Seconds()),
	}, nil
}

// ToUserResponse строит внешнее представление пользователя
func ToUserResponse(user *entity.User) entity.UserResponse {
	return entity.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: roles.Permissions(user.Role),
		CreatedAt:   user.CreatedAt,
	}
}
