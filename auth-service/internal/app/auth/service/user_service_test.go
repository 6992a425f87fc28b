package service

import (
	"context"
	"errors"
	"testing"

	"bookhive/auth-service/internal/app/auth/entity"
	"bookhive/auth-service/internal/app/auth/repository"
	"bookhive/auth-service/internal/app/auth/repository/mocks"
	"bookhive/pkg/roles"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)

	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	svc := NewUserService(userRepo)

	// Act
	resp, err := svc.Create(ctx, &entity.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Role:     "ADMIN",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", resp.Email)
	assert.Equal(t, roles.Admin, resp.Role)
	assert.Len(t, resp.Permissions, 6)
	userRepo.AssertExpectations(t)
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)

	svc := NewUserService(userRepo)

	resp, err := svc.Create(ctx, &entity.CreateUserRequest{
		Email:    "x@example.com",
		Password: "password123",
		Role:     "SUPERUSER",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidRole)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)

	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(repository.ErrAlreadyExists)

	svc := NewUserService(userRepo)

	resp, err := svc.Create(ctx, &entity.CreateUserRequest{
		Email:    "dup@example.com",
		Password: "password123",
		Role:     "USER",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserService_GetByID_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	user := newTestUser(roles.Admin)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	svc := NewUserService(userRepo)

	resp, err := svc.GetByID(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, roles.Admin, resp.Role)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	id := uuid.New()

	userRepo.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)

	svc := NewUserService(userRepo)

	resp, err := svc.GetByID(ctx, id)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_List_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)

	users := []entity.User{*newTestUser(roles.User), *newTestUser(roles.Admin)}
	userRepo.On("List", ctx, 20, 0).Return(users, int64(42), nil)

	svc := NewUserService(userRepo)

	page, err := svc.List(ctx, 0, 20)

	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 20, page.Size)
	assert.Equal(t, int64(42), page.Total)
}

func TestUserService_List_OffsetFromPage(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)

	// page=2, size=10 -> offset 20
	userRepo.On("List", ctx, 10, 20).Return([]entity.User{}, int64(0), nil)

	svc := NewUserService(userRepo)

	page, err := svc.List(ctx, 2, 10)

	require.NoError(t, err)
	assert.Empty(t, page.Content)
	userRepo.AssertExpectations(t)
}

func TestUserService_Update_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	user := newTestUser(roles.User)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	svc := NewUserService(userRepo)

	resp, err := svc.Update(ctx, user.ID, &entity.UpdateUserRequest{
		Role: "ADMIN",
	})

	require.NoError(t, err)
	assert.Equal(t, roles.Admin, resp.Role)
	// Email не трогаем, если поле не передано
	assert.Equal(t, "u@example.com", resp.Email)
}

func TestUserService_Update_UnknownRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	user := newTestUser(roles.User)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	svc := NewUserService(userRepo)

	resp, err := svc.Update(ctx, user.ID, &entity.UpdateUserRequest{
		Role: "ROOT",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidRole)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Update_EmailTaken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	user := newTestUser(roles.User)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(repository.ErrAlreadyExists)

	svc := NewUserService(userRepo)

	resp, err := svc.Update(ctx, user.ID, &entity.UpdateUserRequest{
		Email: "taken@example.com",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserService_Delete_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	id := uuid.New()

	userRepo.On("Delete", ctx, id).Return(nil)

	svc := NewUserService(userRepo)

	err := svc.Delete(ctx, id)

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestUserService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	id := uuid.New()

	userRepo.On("Delete", ctx, id).Return(repository.ErrNotFound)

	svc := NewUserService(userRepo)

	err := svc.Delete(ctx, id)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Delete_RepoError(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	id := uuid.New()

	userRepo.On("Delete", ctx, id).Return(errors.New("db error"))

	svc := NewUserService(userRepo)

	err := svc.Delete(ctx, id)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
