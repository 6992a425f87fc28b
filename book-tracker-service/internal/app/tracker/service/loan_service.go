package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookhive/book-tracker-service/internal/app/tracker/entity"
	"bookhive/book-tracker-service/internal/app/tracker/infrastructure"
	"bookhive/book-tracker-service/internal/app/tracker/repository"
	"bookhive/pkg/logger"
	"bookhive/pkg/metrics"

	"github.com/google/uuid"
)

const serviceName = "book-tracker-service"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrLoanNotFound      = errors.New("loan record not found")
	ErrLoanExists        = errors.New("book is already tracked")
	ErrInvalidStatus     = errors.New("unknown loan status")
	ErrDependencyFailure = infrastructure.ErrDependencyFailure
)

// LoanService обрабатывает бизнес-логику реестра займов.
// Записи создаются событиями каталога и вручную, чтение доступных
// книг обогащается синхронным походом в book-storage-service.
type LoanService struct {
	loanRepo      repository.LoanRepository
	storageClient infrastructure.BookStorageClient
}

// NewLoanService создает новый сервис реестра с внедрением зависимостей
func NewLoanService(loanRepo repository.LoanRepository, storageClient infrastructure.BookStorageClient) *LoanService {
	return &LoanService{
		loanRepo:      loanRepo,
		storageClient: storageClient,
	}
}

// ApplyBookCreated заводит запись AVAILABLE для новой книги.
// Повторная доставка события - штатный случай, запись не дублируется.
func (s *LoanService) ApplyBookCreated(ctx context.Context, bookID uuid.UUID) error {
	loan := &entity.BookLoan{
		ID:        uuid.New(),
		BookID:    bookID,
		Status:    entity.LoanStatusAvailable,
		CreatedAt: time.Now(),
	}

	created, err := s.loanRepo.CreateIfAbsent(ctx, loan)
	if err != nil {
		metrics.RecordEventApplied(serviceName, "book-created", "error")
		return fmt.Errorf("failed to apply book created event: %w", err)
	}

	if !created {
		metrics.RecordEventApplied(serviceName, "book-created", "duplicate")
		logger.Debug().Str("book_id", bookID.String()).Msg("Book already tracked, event skipped")
		return nil
	}

	metrics.RecordEventApplied(serviceName, "book-created", "created")
	return nil
}

// ApplyBookDeleted убирает запись удаленной книги из реестра.
// Отсутствие записи - штатный случай при повторной доставке.
func (s *LoanService) ApplyBookDeleted(ctx context.Context, bookID uuid.UUID) error {
	deleted, err := s.loanRepo.DeleteByBookID(ctx, bookID)
	if err != nil {
		metrics.RecordEventApplied(serviceName, "book-deleted", "error")
		return fmt.Errorf("failed to apply book deleted event: %w", err)
	}

	if !deleted {
		metrics.RecordEventApplied(serviceName, "book-deleted", "noop")
		logger.Debug().Str("book_id", bookID.String()).Msg("Book not tracked, event skipped")
		return nil
	}

	metrics.RecordEventApplied(serviceName, "book-deleted", "deleted")
	return nil
}

// GetAvailableBooks возвращает страницу доступных книг с данными каталога.
// Пустая страница идентификаторов не ходит в book-storage-service.
func (s *LoanService) GetAvailableBooks(ctx context.Context, authToken string, page, size int) (*entity.BookPageResponse, error) {
	ids, total, err := s.loanRepo.AvailableBookIDs(ctx, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("failed to get available book ids: %w", err)
	}

	if len(ids) == 0 {
		return &entity.BookPageResponse{
			Content: []entity.BookResponse{},
			Page:    page,
			Size:    size,
			Total:   total,
		}, nil
	}

	// Страница уже нарезана по реестру, каталог запрашивается целиком
	books, err := s.storageClient.GetBooksByIDs(ctx, authToken, ids, 0, len(ids))
	if err != nil {
		return nil, err
	}

	return &entity.BookPageResponse{
		Content: books.Content,
		Page:    page,
		Size:    size,
		Total:   total,
	}, nil
}

// Create вручную добавляет книгу в реестр
func (s *LoanService) Create(ctx context.Context, req *entity.CreateLoanRequest) (*entity.BookLoan, error) {
	loan := &entity.BookLoan{
		ID:        uuid.New(),
		BookID:    req.BookID,
		Status:    entity.LoanStatusAvailable,
		CreatedAt: time.Now(),
	}

	created, err := s.loanRepo.CreateIfAbsent(ctx, loan)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan record: %w", err)
	}

	if !created {
		return nil, ErrLoanExists
	}

	return loan, nil
}

// GetByID получает запись реестра по ID
func (s *LoanService) GetByID(ctx context.Context, id uuid.UUID) (*entity.BookLoan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan record: %w", err)
	}

	return loan, nil
}

// List возвращает страницу реестра
func (s *LoanService) List(ctx context.Context, page, size int) (*entity.LoanPageResponse, error) {
	loans, total, err := s.loanRepo.List(ctx, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan records: %w", err)
	}

	if loans == nil {
		loans = []entity.BookLoan{}
	}

	return &entity.LoanPageResponse{
		Content: loans,
		Page:    page,
		Size:    size,
		Total:   total,
	}, nil
}

// UpdateStatus меняет статус записи.
// Переход в BORROWED очищает отметку возврата, переход в AVAILABLE
// ставит текущее время.
func (s *LoanService) UpdateStatus(ctx context.Context, id uuid.UUID, req *entity.UpdateLoanStatusRequest) (*entity.BookLoan, error) {
	if !entity.ValidLoanStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan record: %w", err)
	}

	loan.Status = req.Status
	switch req.Status {
	case entity.LoanStatusBorrowed:
		loan.ReturnedAt = nil
	case entity.LoanStatusAvailable:
		now := time.Now()
		loan.ReturnedAt = &now
	}

	if err := s.loanRepo.UpdateStatus(ctx, loan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to update loan record: %w", err)
	}

	return loan, nil
}

// Delete удаляет запись из реестра
func (s *LoanService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.loanRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLoanNotFound
		}
		return fmt.Errorf("failed to delete loan record: %w", err)
	}
	return nil
}
