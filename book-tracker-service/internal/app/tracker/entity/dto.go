package entity

import (
	"time"

	"github.com/google/uuid"
)

// CreateLoanRequest - ручное добавление книги в реестр займов
type CreateLoanRequest struct {
	BookID uuid.UUID `json:"book_id" validate:"required"`
}

// UpdateLoanStatusRequest - смена статуса записи
type UpdateLoanStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LoanPageResponse - страница записей реестра
type LoanPageResponse struct {
	Content []BookLoan `json:"content"`
	Page    int        `json:"page"`
	Size    int        `json:"size"`
	Total   int64      `json:"total"`
}

// BookResponse - книга в ответе book-storage-service
type BookResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookPageResponse - страница книг из book-storage-service.
// Формат совпадает с ответом каталога и отдается клиенту как есть.
type BookPageResponse struct {
	Content []BookResponse `json:"content"`
	Page    int            `json:"page"`
	Size    int            `json:"size"`
	Total   int64          `json:"total"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
