package service

import (
	"context"

	"bookhive/book-storage-service/internal/app/storage/entity"

	"github.com/google/uuid"
)

// BookServiceInterface определяет контракт сервиса каталога
type BookServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateBookRequest) (*entity.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID, page, size int) (*entity.BookPageResponse, error)
	GetAll(ctx context.Context, page, size int) (*entity.BookPageResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateBookRequest) (*entity.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
