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

	"github.com/google/uuid"
)

// UserService обрабатывает административные операции над пользователями
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create создает пользователя с заданной ролью
func (s *UserService) Create(ctx context.Context, req *entity.CreateUserRequest) (*entity.UserResponse, error) {
	role := roles.Role(req.Role)
	if !roles.Valid(role) {
		return nil, ErrInvalidRole
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// List возвращает страницу пользователей
func (s *UserService) List(ctx context.Context, page, size int) (*entity.UserPageResponse, error) {
	users, total, err := s.userRepo.List(ctx, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	content := make([]entity.UserResponse, 0, len(users))
	for i := range users {
		content = append(content, ToUserResponse(&users[i]))
	}

	return &entity.UserPageResponse{
		Content: content,
		Page:    page,
		Size:    size,
		Total:   total,
	}, nil
}

// Update обновляет email и/или роль пользователя
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		role := roles.Role(req.Role)
		if !roles.Valid(role) {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, ErrUserExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete удаляет пользователя
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
