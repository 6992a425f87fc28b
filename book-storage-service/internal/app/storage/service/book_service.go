package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookhive/book-storage-service/internal/app/storage/entity"
	"bookhive/book-storage-service/internal/app/storage/repository"
	"bookhive/book-storage-service/internal/app/storage/util"
	"bookhive/pkg/logger"
	"bookhive/pkg/metrics"

	"github.com/google/uuid"
)

const serviceName = "book-storage-service"

// TTL кеша первой страницы каталога
const bookPageCacheTTL = time.Hour

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrBookNotFound = errors.New("book not found")
	ErrBookExists   = errors.New("book with this isbn already exists")
)

// BookService обрабатывает бизнес-логику каталога книг.
// Координирует репозиторий, Redis кеш и Kafka producer.
type BookService struct {
	bookRepo     repository.BookRepository
	cache        util.BookCache
	publisher    util.MessagePublisher
	createdTopic string
	deletedTopic string
}

// NewBookService создает новый сервис каталога с внедрением зависимостей
func NewBookService(
	bookRepo repository.BookRepository,
	cache util.BookCache,
	publisher util.MessagePublisher,
	createdTopic, deletedTopic string,
) *BookService {
	return &BookService{
		bookRepo:     bookRepo,
		cache:        cache,
		publisher:    publisher,
		createdTopic: createdTopic,
		deletedTopic: deletedTopic,
	}
}

// Create добавляет книгу и публикует событие book-created.
// Событие публикуется после коммита: подписчики никогда не увидят
// идентификатор книги, которой нет в каталоге. Ошибка публикации не
// откатывает запись - пропуски добирает реконсилиация на стороне
// подписчика.
func (s *BookService) Create(ctx context.Context, req *entity.CreateBookRequest) (*entity.Book, error) {
	book := &entity.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrBookExists
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.publishBookEvent(ctx, s.createdTopic, book.ID)
	s.invalidateCache(ctx)

	return book, nil
}

// GetByID получает книгу по ID
func (s *BookService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// GetByISBN получает книгу по ISBN
func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by isbn: %w", err)
	}

	return book, nil
}

// GetByIDs возвращает страницу книг по списку идентификаторов.
// Пустой список дает пустую страницу без похода в БД.
func (s *BookService) GetByIDs(ctx context.Context, ids []uuid.UUID, page, size int) (*entity.BookPageResponse, error) {
	if len(ids) == 0 {
		return &entity.BookPageResponse{
			Content: []entity.Book{},
			Page:    page,
			Size:    size,
			Total:   0,
		}, nil
	}

	books, total, err := s.bookRepo.GetByIDs(ctx, ids, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("failed to get books by ids: %w", err)
	}

	return buildBookPage(books, page, size, total), nil
}

// GetAll возвращает страницу каталога.
// Первая страница с параметрами по умолчанию кешируется в Redis.
func (s *BookService) GetAll(ctx context.Context, page, size int) (*entity.BookPageResponse, error) {
	cacheable := page == 0 && size == 20

	if cacheable {
		cached, err := s.cache.GetBookPage(ctx)
		if err != nil {
			metrics.RecordRedisError(serviceName, "get")
			logger.Warn().Err(err).Msg("Failed to read book page from cache")
		} else if cached != nil {
			metrics.RecordCacheHit(serviceName, "books")
			return cached, nil
		} else {
			metrics.RecordCacheMiss(serviceName, "books")
		}
	}

	books, total, err := s.bookRepo.List(ctx, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	result := buildBookPage(books, page, size, total)

	if cacheable {
		if err := s.cache.SetBookPage(ctx, result, bookPageCacheTTL); err != nil {
			metrics.RecordRedisError(serviceName, "set")
			logger.Warn().Err(err).Msg("Failed to cache book page")
		}
	}

	return result, nil
}

// Update обновляет книгу (ISBN неизменен)
func (s *BookService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateBookRequest) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.Description != "" {
		book.Description = req.Description
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	s.invalidateCache(ctx)

	return book, nil
}

// Delete удаляет книгу и публикует событие book-deleted
func (s *BookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}

	s.publishBookEvent(ctx, s.deletedTopic, id)
	s.invalidateCache(ctx)

	return nil
}

// publishBookEvent отправляет идентификатор книги в топик событий.
// Тело сообщения - просто id книги строкой, он же ключ партиционирования.
func (s *BookService) publishBookEvent(ctx context.Context, topic string, bookID uuid.UUID) {
	id := bookID.String()
	timer := metrics.NewKafkaProduceTimer(serviceName, topic)

	if err := s.publisher.PublishMessage(ctx, topic, id, []byte(id)); err != nil {
		timer.Error()
		logger.Error().Err(err).
			Str("topic", topic).
			Str("book_id", id).
			Msg("Failed to publish book event")
		return
	}

	timer.Success()
}

// invalidateCache сбрасывает кеш первой страницы каталога
func (s *BookService) invalidateCache(ctx context.Context) {
	if err := s.cache.DeleteBookPage(ctx); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		logger.Warn().Err(err).Msg("Failed to invalidate book page cache")
	}
}

// buildBookPage собирает страницу, гарантируя непустой слайс в JSON
func buildBookPage(books []entity.Book, page, size int, total int64) *entity.BookPageResponse {
	if books == nil {
		books = []entity.Book{}
	}
	return &entity.BookPageResponse{
		Content: books,
		Page:    page,
		Size:    size,
		Total:   total,
	}
}
