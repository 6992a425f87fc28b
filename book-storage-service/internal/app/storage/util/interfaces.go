package util

import (
	"context"
	"time"

	"bookhive/book-storage-service/internal/app/storage/entity"
)

// BookCache интерфейс для работы с Redis кешем
// Используется для dependency injection и упрощения тестирования
type BookCache interface {
	SetBookPage(ctx context.Context, page *entity.BookPageResponse, ttl time.Duration) error
	GetBookPage(ctx context.Context) (*entity.BookPageResponse, error)
	DeleteBookPage(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки событий в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, topic, key string, value []byte) error
	Close() error
}
