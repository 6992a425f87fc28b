package mocks

import (
	"context"

	"bookhive/book-tracker-service/internal/app/tracker/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLoanRepository мок для LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) CreateIfAbsent(ctx context.Context, loan *entity.BookLoan) (bool, error) {
	args := m.Called(ctx, loan)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BookLoan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookLoan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context, limit, offset int) ([]entity.BookLoan, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.BookLoan), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoanRepository) AvailableBookIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]uuid.UUID), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, loan *entity.BookLoan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteByBookID(ctx context.Context, bookID uuid.UUID) (bool, error) {
	args := m.Called(ctx, bookID)
	return args.Bool(0), args.Error(1)
}

// MockStorageClient мок для BookStorageClient
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) GetBooksByIDs(ctx context.Context, authToken string, ids []uuid.UUID, page, size int) (*entity.BookPageResponse, error) {
	args := m.Called(ctx, authToken, ids, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookPageResponse), args.Error(1)
}

func (m *MockStorageClient) ListBooks(ctx context.Context, authToken string, page, size int) (*entity.BookPageResponse, error) {
	args := m.Called(ctx, authToken, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookPageResponse), args.Error(1)
}
