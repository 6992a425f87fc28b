package infrastructure

import (
	"context"
	"errors"

	"bookhive/book-tracker-service/internal/app/tracker/entity"

	"github.com/google/uuid"
)

// ErrDependencyFailure - book-storage-service недоступен или ответил ошибкой
var ErrDependencyFailure = errors.New("book storage service unavailable")

// BookStorageClient клиент для обогащения данных из book-storage-service.
// Используется для dependency injection и упрощения тестирования.
type BookStorageClient interface {
	// GetBooksByIDs запрашивает книги по списку идентификаторов.
	// authToken передается как есть: запрос выполняется с правами вызывающего.
	GetBooksByIDs(ctx context.Context, authToken string, ids []uuid.UUID, page, size int) (*entity.BookPageResponse, error)
	// ListBooks запрашивает страницу всего каталога (для реконсилиации)
	ListBooks(ctx context.Context, authToken string, page, size int) (*entity.BookPageResponse, error)
}
