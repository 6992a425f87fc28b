package service

import (
	"context"

	"bookhive/book-tracker-service/internal/app/tracker/entity"

	"github.com/google/uuid"
)

// LoanServiceInterface определяет контракт сервиса реестра займов
type LoanServiceInterface interface {
	// ApplyBookCreated идемпотентно заводит запись по событию book-created
	ApplyBookCreated(ctx context.Context, bookID uuid.UUID) error
	// ApplyBookDeleted идемпотентно убирает запись по событию book-deleted
	ApplyBookDeleted(ctx context.Context, bookID uuid.UUID) error
	// GetAvailableBooks возвращает доступные книги, обогащенные каталогом.
	// authToken - токен вызывающего, передается в book-storage-service.
	GetAvailableBooks(ctx context.Context, authToken string, page, size int) (*entity.BookPageResponse, error)
	Create(ctx context.Context, req *entity.CreateLoanRequest) (*entity.BookLoan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BookLoan, error)
	List(ctx context.Context, page, size int) (*entity.LoanPageResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *entity.UpdateLoanStatusRequest) (*entity.BookLoan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
