package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookhive/book-tracker-service/internal/app/tracker/entity"
	"bookhive/book-tracker-service/internal/app/tracker/service"
	"bookhive/pkg/roles"
	"bookhive/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLoanService - мок сервиса реестра для тестов хендлеров
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) ApplyBookCreated(ctx context.Context, bookID uuid.UUID) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

func (m *MockLoanService) ApplyBookDeleted(ctx context.Context, bookID uuid.UUID) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

func (m *MockLoanService) GetAvailableBooks(ctx context.Context, authToken string, page, size int) (*entity.BookPageResponse, error) {
	args := m.Called(ctx, authToken, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookPageResponse), args.Error(1)
}

func (m *MockLoanService) Create(ctx context.Context, req *entity.CreateLoanRequest) (*entity.BookLoan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookLoan), args.Error(1)
}

func (m *MockLoanService) GetByID(ctx context.Context, id uuid.UUID) (*entity.BookLoan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookLoan), args.Error(1)
}

func (m *MockLoanService) List(ctx context.Context, page, size int) (*entity.LoanPageResponse, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LoanPageResponse), args.Error(1)
}

func (m *MockLoanService) UpdateStatus(ctx context.Context, id uuid.UUID, req *entity.UpdateLoanStatusRequest) (*entity.BookLoan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookLoan), args.Error(1)
}

func (m *MockLoanService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newLoan() *entity.BookLoan {
	return &entity.BookLoan{
		ID:        uuid.New(),
		BookID:    uuid.New(),
		Status:    entity.LoanStatusAvailable,
		CreatedAt: time.Now(),
	}
}

// setupLoansRouter поднимает роутер с реальными middleware и моком сервиса
func setupLoansRouter(svc service.LoanServiceInterface, tokenManager *token.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRoutes(NewLoanHandler(svc), NewAuthMiddleware(tokenManager))
}

func newTestTokenManager() *token.Manager {
	return token.NewManager("test-secret-key", "bookhive-auth", 15*time.Minute, 0)
}

func adminToken(t *testing.T, tokenManager *token.Manager) string {
	t.Helper()
	accessToken, err := tokenManager.GenerateAccessToken("admin@example.com", roles.Permissions(roles.Admin))
	require.NoError(t, err)
	return accessToken
}

func userToken(t *testing.T, tokenManager *token.Manager) string {
	t.Helper()
	accessToken, err := tokenManager.GenerateAccessToken("u@example.com", roles.Permissions(roles.User))
	require.NoError(t, err)
	return accessToken
}

func doRequest(router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoanHandler_GetAvailable_Success(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)
	bearer := userToken(t, tokenManager)

	page := &entity.BookPageResponse{
		Content: []entity.BookResponse{{ID: uuid.New(), Title: "The Go Programming Language"}},
		Page:    0,
		Size:    20,
		Total:   1,
	}

	// Токен вызывающего уходит в сервис без изменений
	svc.On("GetAvailableBooks", mock.Anything, bearer, 0, 20).Return(page, nil)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v0/loans/available", bearer, nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.BookPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Content, 1)
	svc.AssertExpectations(t)
}

func TestLoanHandler_GetAvailable_UserRoleAllowed(t *testing.T) {
	// Arrange: обычному пользователю хватает book:read
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)
	bearer := userToken(t, tokenManager)

	svc.On("GetAvailableBooks", mock.Anything, bearer, 1, 50).Return(&entity.BookPageResponse{
		Content: []entity.BookResponse{},
		Page:    1,
		Size:    50,
	}, nil)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v0/loans/available?page=1&size=50", bearer, nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestLoanHandler_GetAvailable_StorageUnavailable(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)
	bearer := userToken(t, tokenManager)

	svc.On("GetAvailableBooks", mock.Anything, bearer, 0, 20).
		Return(nil, service.ErrDependencyFailure)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v0/loans/available", bearer, nil)

	// Assert
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLoanHandler_GetAvailable_Unauthorized(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	router := setupLoansRouter(svc, newTestTokenManager())

	// Act
	w := doRequest(router, http.MethodGet, "/api/v0/loans/available", "", nil)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetAvailableBooks", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoanHandler_Create_Success(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	loan := newLoan()
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req *entity.CreateLoanRequest) bool {
		return req.BookID == loan.BookID
	})).Return(loan, nil)

	// Act
	w := doRequest(router, http.MethodPost, "/api/v0/loans", adminToken(t, tokenManager),
		entity.CreateLoanRequest{BookID: loan.BookID})

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var response entity.BookLoan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, loan.BookID, response.BookID)
	assert.Equal(t, entity.LoanStatusAvailable, response.Status)
}

func TestLoanHandler_Create_Conflict(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	svc.On("Create", mock.Anything, mock.AnythingOfType("*entity.CreateLoanRequest")).
		Return(nil, service.ErrLoanExists)

	// Act
	w := doRequest(router, http.MethodPost, "/api/v0/loans", adminToken(t, tokenManager),
		entity.CreateLoanRequest{BookID: uuid.New()})

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoanHandler_Create_ForbiddenForUserRole(t *testing.T) {
	// Arrange: у USER нет user:write
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	// Act
	w := doRequest(router, http.MethodPost, "/api/v0/loans", userToken(t, tokenManager),
		entity.CreateLoanRequest{BookID: uuid.New()})

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoanHandler_Create_MissingBookID(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	// Act
	w := doRequest(router, http.MethodPost, "/api/v0/loans", adminToken(t, tokenManager),
		map[string]string{})

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoanHandler_List_Success(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	svc.On("List", mock.Anything, 2, 10).Return(&entity.LoanPageResponse{
		Content: []entity.BookLoan{*newLoan()},
		Page:    2,
		Size:    10,
		Total:   21,
	}, nil)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v0/loans?page=2&size=10", adminToken(t, tokenManager), nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.LoanPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(21), response.Total)
	svc.AssertExpectations(t)
}

func TestLoanHandler_List_ForbiddenForUserRole(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v0/loans", userToken(t, tokenManager), nil)

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoanHandler_GetByID_Success(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	loan := newLoan()
	svc.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)

	// Act
	w := doRequest(router, http.MethodGet, fmt.Sprintf("/api/v0/loans/%s", loan.ID), adminToken(t, tokenManager), nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoanHandler_GetByID_NotFound(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(nil, service.ErrLoanNotFound)

	// Act
	w := doRequest(router, http.MethodGet, fmt.Sprintf("/api/v0/loans/%s", id), adminToken(t, tokenManager), nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoanHandler_GetByID_InvalidID(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	// Act
	w := doRequest(router, http.MethodGet, "/api/v0/loans/not-a-uuid", adminToken(t, tokenManager), nil)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestLoanHandler_UpdateStatus_Success(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	loan := newLoan()
	loan.Status = entity.LoanStatusBorrowed
	svc.On("UpdateStatus", mock.Anything, loan.ID, mock.MatchedBy(func(req *entity.UpdateLoanStatusRequest) bool {
		return req.Status == entity.LoanStatusBorrowed
	})).Return(loan, nil)

	// Act
	w := doRequest(router, http.MethodPatch, fmt.Sprintf("/api/v0/loans/%s/status", loan.ID),
		adminToken(t, tokenManager), entity.UpdateLoanStatusRequest{Status: entity.LoanStatusBorrowed})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.BookLoan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, entity.LoanStatusBorrowed, response.Status)
}

func TestLoanHandler_UpdateStatus_UnknownStatus(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	id := uuid.New()
	svc.On("UpdateStatus", mock.Anything, id, mock.AnythingOfType("*entity.UpdateLoanStatusRequest")).
		Return(nil, service.ErrInvalidStatus)

	// Act
	w := doRequest(router, http.MethodPatch, fmt.Sprintf("/api/v0/loans/%s/status", id),
		adminToken(t, tokenManager), entity.UpdateLoanStatusRequest{Status: "LOST"})

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoanHandler_UpdateStatus_NotFound(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	id := uuid.New()
	svc.On("UpdateStatus", mock.Anything, id, mock.AnythingOfType("*entity.UpdateLoanStatusRequest")).
		Return(nil, service.ErrLoanNotFound)

	// Act
	w := doRequest(router, http.MethodPatch, fmt.Sprintf("/api/v0/loans/%s/status", id),
		adminToken(t, tokenManager), entity.UpdateLoanStatusRequest{Status: entity.LoanStatusBorrowed})

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoanHandler_Delete_Success(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	// Act
	w := doRequest(router, http.MethodDelete, fmt.Sprintf("/api/v0/loans/%s", id), adminToken(t, tokenManager), nil)

	// Assert
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestLoanHandler_Delete_ForbiddenForUserRole(t *testing.T) {
	// Arrange
	svc := new(MockLoanService)
	tokenManager := newTestTokenManager()
	router := setupLoansRouter(svc, tokenManager)

	// Act
	w := doRequest(router, http.MethodDelete, fmt.Sprintf("/api/v0/loans/%s", uuid.New()),
		userToken(t, tokenManager), nil)

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLoanHandler_HealthEndpointIsPublic(t *testing.T) {
	// Arrange
	router := setupLoansRouter(new(MockLoanService), newTestTokenManager())

	// Act
	w := doRequest(router, http.MethodGet, "/health", "", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}
