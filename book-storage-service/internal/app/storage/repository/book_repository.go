package repository

import (
	"context"
	"errors"
	"fmt"

	"bookhive/book-storage-service/internal/app/storage/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения
const uniqueViolationCode = "23505"

type bookRepository struct {
	db *pgxpool.Pool
}

// NewBookRepository создает новый репозиторий книг
func NewBookRepository(db *pgxpool.Pool) BookRepository {
	return &bookRepository{db: db}
}

// Create добавляет книгу в каталог.
// Уникальность ISBN обеспечивается ограничением БД: конкурентные
// вставки одного ISBN не создадут дубликат.
func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	query := `
		INSERT INTO books (id, title, author, isbn, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		ctx, query,
		book.ID, book.Title, book.Author, book.ISBN, book.Description, book.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// GetByID получает книгу по ID
func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	query := `SELECT id, title, author, isbn, description, created_at FROM books WHERE id = $1`

	var book entity.Book
	err := r.db.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Description,
		&book.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return &book, nil
}

// GetByISBN получает книгу по ISBN
func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	query := `SELECT id, title, author, isbn, description, created_at FROM books WHERE isbn = $1`

	var book entity.Book
	err := r.db.QueryRow(ctx, query, isbn).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Description,
		&book.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book by isbn: %w", err)
	}

	return &book, nil
}

// GetByIDs получает страницу книг по списку идентификаторов.
// Неизвестные идентификаторы молча пропускаются.
func (r *bookRepository) GetByIDs(ctx context.Context, ids []uuid.UUID, limit, offset int) ([]entity.Book, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE id = ANY($1)`, ids).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books by ids: %w", err)
	}

	query := `
		SELECT id, title, author, isbn, description, created_at
		FROM books
		WHERE id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, ids, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get books by ids: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// List получает страницу каталога и общее количество книг
func (r *bookRepository) List(ctx context.Context, limit, offset int) ([]entity.Book, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := `
		SELECT id, title, author, isbn, description, created_at
		FROM books
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// Update обновляет книгу (ISBN не меняется)
func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, description = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(
		ctx, query,
		book.Title, book.Author, book.Description, book.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет книгу из каталога
func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM books WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// scanBooks читает все строки результата в слайс книг
func scanBooks(rows pgx.Rows) ([]entity.Book, error) {
	var books []entity.Book
	for rows.Next() {
		var book entity.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.ISBN,
			&book.Description,
			&book.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}
