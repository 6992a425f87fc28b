package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookhive/book-storage-service/internal/app/storage/entity"
	"bookhive/book-storage-service/internal/app/storage/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BookHandler обрабатывает HTTP запросы к каталогу книг
type BookHandler struct {
	bookService service.BookServiceInterface
	validator   *validator.Validate
}

func NewBookHandler(bookService service.BookServiceInterface) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		validator:   validator.New(),
	}
}

// Create обрабатывает POST /api/v0/books
func (h *BookHandler) Create(c *gin.Context) {
	var req entity.CreateBookRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid request body",
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrBookExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "Book with this ISBN already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to create book",
		})
		return
	}

	c.JSON(http.StatusCreated, book)
}

// GetAll обрабатывает GET /api/v0/books?page=0&size=20
func (h *BookHandler) GetAll(c *gin.Context) {
	page, size := pageParams(c)

	books, err := h.bookService.GetAll(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list books",
		})
		return
	}

	c.JSON(http.StatusOK, books)
}

// GetByIDs обрабатывает GET /api/v0/books/ids?ids=a,b,c&page=0&size=20
// Эндпоинт для обогащения данных в других сервисах: неизвестные
// идентификаторы молча пропускаются.
func (h *BookHandler) GetByIDs(c *gin.Context) {
	page, size := pageParams(c)

	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid book ID in ids parameter",
		})
		return
	}

	books, err := h.bookService.GetByIDs(c.Request.Context(), ids, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get books",
		})
		return
	}

	c.JSON(http.StatusOK, books)
}

// GetByID обрабатывает GET /api/v0/books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid book ID",
		})
		return
	}

	book, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Book not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get book",
		})
		return
	}

	c.JSON(http.StatusOK, book)
}

// GetByISBN обрабатывает GET /api/v0/books/isbn/:isbn
func (h *BookHandler) GetByISBN(c *gin.Context) {
	isbn := c.Param("isbn")
	if isbn == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "ISBN is required",
		})
		return
	}

	book, err := h.bookService.GetByISBN(c.Request.Context(), isbn)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Book not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get book",
		})
		return
	}

	c.JSON(http.StatusOK, book)
}

// Update обрабатывает PUT /api/v0/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid book ID",
		})
		return
	}

	var req entity.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid request body",
		})
		return
	}

	book, err := h.bookService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Book not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to update book",
		})
		return
	}

	c.JSON(http.StatusOK, book)
}

// Delete обрабатывает DELETE /api/v0/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid book ID",
		})
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Book not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to delete book",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// pageParams читает параметры пагинации с дефолтами page=0, size=20
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}

	return page, size
}

// parseIDList разбирает список UUID через запятую, пустые элементы пропускаются
func parseIDList(raw string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
