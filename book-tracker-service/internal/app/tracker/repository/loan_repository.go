package repository

import (
	"context"
	"errors"
	"fmt"

	"bookhive/book-tracker-service/internal/app/tracker/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanRepository реализует LoanRepository для PostgreSQL через GORM
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository создает новый репозиторий реестра займов
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// CreateIfAbsent вставляет запись с ON CONFLICT DO NOTHING по book_id.
// Конкурентная доставка одного события и повторы consumer не плодят
// дубликаты и не порождают ошибок.
func (r *loanRepository) CreateIfAbsent(ctx context.Context, loan *entity.BookLoan) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "book_id"}},
			DoNothing: true,
		}).
		Create(loan)

	if result.Error != nil {
		return false, fmt.Errorf("failed to create loan record: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetByID получает запись по ID
func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BookLoan, error) {
	var loan entity.BookLoan
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&loan)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get loan record: %w", result.Error)
	}

	return &loan, nil
}

// List получает страницу реестра и общее количество записей
func (r *loanRepository) List(ctx context.Context, limit, offset int) ([]entity.BookLoan, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.BookLoan{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count loan records: %w", err)
	}

	var loans []entity.BookLoan
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&loans)

	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list loan records: %w", result.Error)
	}

	return loans, total, nil
}

// AvailableBookIDs возвращает страницу идентификаторов доступных книг
func (r *loanRepository) AvailableBookIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entity.BookLoan{}).
		Where("status = ?", entity.LoanStatusAvailable).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count available books: %w", err)
	}

	var ids []uuid.UUID
	result := r.db.WithContext(ctx).
		Model(&entity.BookLoan{}).
		Where("status = ?", entity.LoanStatusAvailable).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Pluck("book_id", &ids)

	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to get available book ids: %w", result.Error)
	}

	return ids, total, nil
}

// UpdateStatus обновляет статус и отметку возврата
func (r *loanRepository) UpdateStatus(ctx context.Context, loan *entity.BookLoan) error {
	result := r.db.WithContext(ctx).
		Model(&entity.BookLoan{}).
		Where("id = ?", loan.ID).
		Updates(map[string]interface{}{
			"status":      loan.Status,
			"returned_at": loan.ReturnedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update loan record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет запись по ID
func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.BookLoan{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete loan record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByBookID удаляет запись по идентификатору книги.
// Отсутствие записи - штатный случай при повторной доставке события.
func (r *loanRepository) DeleteByBookID(ctx context.Context, bookID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&entity.BookLoan{}, "book_id = ?", bookID)

	if result.Error != nil {
		return false, fmt.Errorf("failed to delete loan record by book id: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
