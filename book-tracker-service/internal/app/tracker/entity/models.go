package entity

import (
	"time"

	"github.com/google/uuid"
)

// Статусы записи о книге в реестре займов
const (
	LoanStatusAvailable = "AVAILABLE"
	LoanStatusBorrowed  = "BORROWED"
)

// ValidLoanStatus проверяет, что статус известен
func ValidLoanStatus(status string) bool {
	return status == LoanStatusAvailable || status == LoanStatusBorrowed
}

// BookLoan - запись реестра займов. На книгу приходится не больше
// одной записи: book_id уникален на уровне БД, поэтому повторная
// доставка события book-created не плодит дубликаты.
type BookLoan struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BookID     uuid.UUID  `json:"book_id" gorm:"type:uuid;uniqueIndex;not null"`
	Status     string     `json:"status" gorm:"not null;default:AVAILABLE"`
	CreatedAt  time.Time  `json:"created_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

// TableName задает имя таблицы для GORM
func (BookLoan) TableName() string {
	return "book_loans"
}
