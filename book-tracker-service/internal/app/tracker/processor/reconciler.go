package processor

import (
	"context"
	"fmt"
	"time"

	"bookhive/book-tracker-service/internal/app/tracker/entity"
	"bookhive/book-tracker-service/internal/app/tracker/infrastructure"
	"bookhive/book-tracker-service/internal/app/tracker/repository"
	"bookhive/pkg/logger"
	"bookhive/pkg/metrics"
	"bookhive/pkg/roles"
	"bookhive/pkg/token"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Размер страницы при обходе каталога
const reconcilePageSize = 100

// Reconciler периодически сверяет реестр займов с каталогом.
// Публикация события идет после коммита в каталоге и может потеряться
// при падении producer - сверка добирает такие книги. Работает только
// на добавление: удаление чужих записей сверке не доверяется.
type Reconciler struct {
	cron          *cron.Cron
	loanRepo      repository.LoanRepository
	storageClient infrastructure.BookStorageClient
	tokenManager  *token.Manager
}

// NewReconciler создает новый реконсилятор каталога
func NewReconciler(
	loanRepo repository.LoanRepository,
	storageClient infrastructure.BookStorageClient,
	tokenManager *token.Manager,
) *Reconciler {
	return &Reconciler{
		cron:          cron.New(),
		loanRepo:      loanRepo,
		storageClient: storageClient,
		tokenManager:  tokenManager,
	}
}

// Start запускает сверку по расписанию и выполняет первый проход сразу
func (r *Reconciler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting catalog reconciler")

	_, err := r.cron.AddFunc(schedule, func() {
		if err := r.Reconcile(ctx); err != nil {
			logger.Error().Err(err).Msg("Catalog reconciliation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}

	r.cron.Start()

	logger.Info().Msg("Performing initial catalog reconciliation...")
	if err := r.Reconcile(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial catalog reconciliation failed")
	}

	return nil
}

// Stop останавливает планировщик и дожидается текущего прохода
func (r *Reconciler) Stop() {
	logger.Info().Msg("Stopping catalog reconciler...")
	ctx := r.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Catalog reconciler stopped")
}

// Reconcile обходит каталог постранично и заводит недостающие записи.
// Каталог требует book:read, поэтому сервис выписывает себе служебный
// токен тем же секретом, что и auth-service.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	authToken, err := r.tokenManager.GenerateAccessToken(
		"book-tracker-service@internal",
		[]string{roles.PermBookRead},
	)
	if err != nil {
		return fmt.Errorf("failed to issue service token: %w", err)
	}

	var restored int64
	for page := 0; ; page++ {
		books, err := r.storageClient.ListBooks(ctx, authToken, page, reconcilePageSize)
		if err != nil {
			return fmt.Errorf("failed to list catalog page %d: %w", page, err)
		}

		for _, book := range books.Content {
			created, err := r.ensureTracked(ctx, book.ID)
			if err != nil {
				return err
			}
			if created {
				restored++
			}
		}

		if len(books.Content) < reconcilePageSize {
			break
		}
	}

	if restored > 0 {
		metrics.ReconcilerBooksRestored.Add(float64(restored))
		logger.Info().Int64("restored", restored).Msg("Catalog reconciliation restored missing records")
	} else {
		logger.Debug().Msg("Catalog reconciliation found no gaps")
	}

	return nil
}

// ensureTracked заводит запись AVAILABLE, если книги нет в реестре
func (r *Reconciler) ensureTracked(ctx context.Context, bookID uuid.UUID) (bool, error) {
	loan := &entity.BookLoan{
		ID:        uuid.New(),
		BookID:    bookID,
		Status:    entity.LoanStatusAvailable,
		CreatedAt: time.Now(),
	}

	created, err := r.loanRepo.CreateIfAbsent(ctx, loan)
	if err != nil {
		return false, fmt.Errorf("failed to track book %s: %w", bookID, err)
	}

	return created, nil
}
