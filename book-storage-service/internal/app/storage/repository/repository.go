package repository

import (
	"context"
	"errors"

	"bookhive/book-storage-service/internal/app/storage/entity"

	"github.com/google/uuid"
)

var (
	// ErrNotFound - книга не найдена
	ErrNotFound = errors.New("book not found")
	// ErrAlreadyExists - книга с таким ISBN уже есть в каталоге
	ErrAlreadyExists = errors.New("book already exists")
)

// BookRepository определяет интерфейс для работы с книгами в БД
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID, limit, offset int) ([]entity.Book, int64, error)
	List(ctx context.Context, limit, offset int) ([]entity.Book, int64, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}
