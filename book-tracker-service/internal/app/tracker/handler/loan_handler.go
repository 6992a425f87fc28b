package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bookhive/book-tracker-service/internal/app/tracker/entity"
	"bookhive/book-tracker-service/internal/app/tracker/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LoanHandler обрабатывает HTTP запросы к реестру займов
type LoanHandler struct {
	loanService service.LoanServiceInterface
	validator   *validator.Validate
}

func NewLoanHandler(loanService service.LoanServiceInterface) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		validator:   validator.New(),
	}
}

// GetAvailable обрабатывает GET /api/v0/loans/available
// Ответ обогащается данными каталога с токеном вызывающего: если у
// него нет book:read, каталог откажет - и это правильный отказ.
func (h *LoanHandler) GetAvailable(c *gin.Context) {
	page, size := pageParams(c)

	books, err := h.loanService.GetAvailableBooks(c.Request.Context(), c.GetString("auth_token"), page, size)
	if err != nil {
		if errors.Is(err, service.ErrDependencyFailure) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Service Unavailable",
				"message": "Book storage service is unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get available books",
		})
		return
	}

	c.JSON(http.StatusOK, books)
}

// Create обрабатывает POST /api/v0/loans
func (h *LoanHandler) Create(c *gin.Context) {
	var req entity.CreateLoanRequest

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

	loan, err := h.loanService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrLoanExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "Book is already tracked",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to create loan record",
		})
		return
	}

	c.JSON(http.StatusCreated, loan)
}

// List обрабатывает GET /api/v0/loans?page=0&size=20
func (h *LoanHandler) List(c *gin.Context) {
	page, size := pageParams(c)

	loans, err := h.loanService.List(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list loan records",
		})
		return
	}

	c.JSON(http.StatusOK, loans)
}

// GetByID обрабатывает GET /api/v0/loans/:id
func (h *LoanHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid loan record ID",
		})
		return
	}

	loan, err := h.loanService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLoanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Loan record not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get loan record",
		})
		return
	}

	c.JSON(http.StatusOK, loan)
}

// UpdateStatus обрабатывает PATCH /api/v0/loans/:id/status
func (h *LoanHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid loan record ID",
		})
		return
	}

	var req entity.UpdateLoanStatusRequest
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

	loan, err := h.loanService.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoanNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Loan record not found",
			})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Unknown loan status",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to update loan record",
			})
		}
		return
	}

	c.JSON(http.StatusOK, loan)
}

// Delete обрабатывает DELETE /api/v0/loans/:id
func (h *LoanHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid loan record ID",
		})
		return
	}

	if err := h.loanService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrLoanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Loan record not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to delete loan record",
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
