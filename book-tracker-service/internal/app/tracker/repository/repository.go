package repository

import (
	"context"
	"errors"

	"bookhive/book-tracker-service/internal/app/tracker/entity"

	"github.com/google/uuid"
)

var (
	// ErrNotFound - запись не найдена
	ErrNotFound = errors.New("loan record not found")
)

// LoanRepository определяет интерфейс для работы с реестром займов
type LoanRepository interface {
	// CreateIfAbsent вставляет запись, если книги еще нет в реестре.
	// Возвращает false без ошибки, если запись уже существовала.
	CreateIfAbsent(ctx context.Context, loan *entity.BookLoan) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BookLoan, error)
	List(ctx context.Context, limit, offset int) ([]entity.BookLoan, int64, error)
	// AvailableBookIDs возвращает страницу идентификаторов доступных книг
	AvailableBookIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, int64, error)
	UpdateStatus(ctx context.Context, loan *entity.BookLoan) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByBookID удаляет запись по идентификатору книги.
	// Возвращает false без ошибки, если записи не было.
	DeleteByBookID(ctx context.Context, bookID uuid.UUID) (bool, error)
}
