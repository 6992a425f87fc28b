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

	"bookhive/book-storage-service/internal/app/storage/entity"
	"bookhive/book-storage-service/internal/app/storage/service"
	"bookhive/pkg/roles"
	"bookhive/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookService - мок сервиса каталога для тестов хендлеров
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) Create(ctx context.Context, req *entity.CreateBookRequest) (*entity.Book, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookService) GetByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookService) GetByIDs(ctx context.Context, ids []uuid.UUID, page, size int) (*entity.BookPageResponse, error) {
	args := m.Called(ctx, ids, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookPageResponse), args.Error(1)
}

func (m *MockBookService) GetAll(ctx context.Context, page, size int) (*entity.BookPageResponse, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookPageResponse), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateBookRequest) (*entity.Book, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newBook() *entity.Book {
	return &entity.Book{
		ID:        uuid.New(),
		Title:     "The Go Programming Language",
		Author:    "Donovan, Kernighan",
		ISBN:      "978-0134190440",
		CreatedAt: time.Now(),
	}
}

// setupBooksRouter поднимает роутер с реальными middleware и моком сервиса
func setupBooksRouter(svc service.BookServiceInterface, tokenManager *token.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRoutes(NewBookHandler(svc), NewAuthMiddleware(tokenManager))
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

func TestBookHandler_Create_Success(t *testing.T) {
	// Arrange
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)
	book := newBook()

	bookService.On("Create", mock.Anything, mock.AnythingOfType("*entity.CreateBookRequest")).Return(book, nil)

	router := setupBooksRouter(bookService, tokenManager)

	// Act
	w := doRequest(router, http.MethodPost, "/api/v0/books", adminToken(t, tokenManager), gin.H{
		"title":  book.Title,
		"author": book.Author,
		"isbn":   book.ISBN,
	})

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var got entity.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, book.ID, got.ID)
}

func TestBookHandler_Create_DuplicateISBN(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	bookService.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrBookExists)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodPost, "/api/v0/books", adminToken(t, tokenManager), gin.H{
		"title":  "T",
		"author": "A",
		"isbn":   "dup",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookHandler_Create_ForbiddenForUserRole(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	router := setupBooksRouter(bookService, tokenManager)

	// Роль USER несет только book:read
	w := doRequest(router, http.MethodPost, "/api/v0/books", userToken(t, tokenManager), gin.H{
		"title":  "T",
		"author": "A",
		"isbn":   "i",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	bookService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookHandler_Create_NoToken(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodPost, "/api/v0/books", "", gin.H{
		"title":  "T",
		"author": "A",
		"isbn":   "i",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookHandler_Create_MissingFields(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodPost, "/api/v0/books", adminToken(t, tokenManager), gin.H{
		"title": "Missing author and isbn",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	bookService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookHandler_GetAll_UserRoleAllowed(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	bookService.On("GetAll", mock.Anything, 0, 20).Return(&entity.BookPageResponse{
		Content: []entity.Book{*newBook()},
		Page:    0,
		Size:    20,
		Total:   1,
	}, nil)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodGet, "/api/v0/books", userToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var page entity.BookPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
}

func TestBookHandler_GetAll_PageParams(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	bookService.On("GetAll", mock.Anything, 3, 50).Return(&entity.BookPageResponse{
		Content: []entity.Book{},
		Page:    3,
		Size:    50,
		Total:   0,
	}, nil)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodGet, "/api/v0/books?page=3&size=50", userToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	bookService.AssertExpectations(t)
}

func TestBookHandler_GetByIDs_Success(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	book := newBook()
	other := uuid.New()

	bookService.On("GetByIDs", mock.Anything, []uuid.UUID{book.ID, other}, 0, 20).
		Return(&entity.BookPageResponse{
			Content: []entity.Book{*book},
			Page:    0,
			Size:    20,
			Total:   1,
		}, nil)

	router := setupBooksRouter(bookService, tokenManager)

	path := fmt.Sprintf("/api/v0/books/ids?ids=%s,%s", book.ID, other)
	w := doRequest(router, http.MethodGet, path, userToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var page entity.BookPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, book.ID, page.Content[0].ID)
}

func TestBookHandler_GetByIDs_InvalidID(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodGet, "/api/v0/books/ids?ids=not-a-uuid", userToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	bookService.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookHandler_GetByIDs_EmptyParam(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)

	bookService.On("GetByIDs", mock.Anything, []uuid.UUID(nil), 0, 20).
		Return(&entity.BookPageResponse{
			Content: []entity.Book{},
			Page:    0,
			Size:    20,
			Total:   0,
		}, nil)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodGet, "/api/v0/books/ids", userToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var page entity.BookPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Empty(t, page.Content)
}

func TestBookHandler_GetByID_NotFound(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)
	id := uuid.New()

	bookService.On("GetByID", mock.Anything, id).Return(nil, service.ErrBookNotFound)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodGet, "/api/v0/books/"+id.String(), userToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookHandler_GetByISBN_Success(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)
	book := newBook()

	bookService.On("GetByISBN", mock.Anything, book.ISBN).Return(book, nil)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodGet, "/api/v0/books/isbn/"+book.ISBN, userToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var got entity.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, book.ISBN, got.ISBN)
}

func TestBookHandler_Delete_Success(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)
	id := uuid.New()

	bookService.On("Delete", mock.Anything, id).Return(nil)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodDelete, "/api/v0/books/"+id.String(), adminToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBookHandler_Delete_ForbiddenForUserRole(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)
	id := uuid.New()

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodDelete, "/api/v0/books/"+id.String(), userToken(t, tokenManager), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	bookService.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBookHandler_Update_Success(t *testing.T) {
	tokenManager := token.NewManager("test-secret", "bookhive-auth", 15*time.Minute, time.Hour)
	bookService := new(MockBookService)
	book := newBook()
	book.Title = "Updated"

	bookService.On("Update", mock.Anything, book.ID, mock.AnythingOfType("*entity.UpdateBookRequest")).
		Return(book, nil)

	router := setupBooksRouter(bookService, tokenManager)

	w := doRequest(router, http.MethodPut, "/api/v0/books/"+book.ID.String(), adminToken(t, tokenManager), gin.H{
		"title": "Updated",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var got entity.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Updated", got.Title)
}
