package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookhive/book-tracker-service/internal/app/tracker/entity"
	"bookhive/book-tracker-service/internal/app/tracker/infrastructure"
	"bookhive/pkg/logger"

	"github.com/google/uuid"
)

// StorageClient клиент для book-storage-service.
// Токен не хранится в клиенте: каждый запрос несет токен вызывающего,
// поэтому каталог применяет права конечного пользователя.
type StorageClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewStorageClient создает новый клиент каталога
func NewStorageClient(baseURL string) *StorageClient {
	return &StorageClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetBooksByIDs запрашивает книги по списку идентификаторов
func (c *StorageClient) GetBooksByIDs(ctx context.Context, authToken string, ids []uuid.UUID, page, size int) (*entity.BookPageResponse, error) {
	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}

	url := fmt.Sprintf("%s/api/v0/books/ids?ids=%s&page=%d&size=%d",
		c.baseURL, strings.Join(idStrings, ","), page, size)

	return c.getBookPage(ctx, url, authToken)
}

// ListBooks запрашивает страницу всего каталога
func (c *StorageClient) ListBooks(ctx context.Context, authToken string, page, size int) (*entity.BookPageResponse, error) {
	url := fmt.Sprintf("%s/api/v0/books?page=%d&size=%d", c.baseURL, page, size)

	return c.getBookPage(ctx, url, authToken)
}

// getBookPage выполняет запрос и разбирает страницу книг.
// Любой сбой зависимости сворачивается в ErrDependencyFailure:
// вызывающему важен сам факт недоступности каталога.
func (c *StorageClient) getBookPage(ctx context.Context, url, authToken string) (*entity.BookPageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("url", url).Msg("Book storage request failed")
		return nil, infrastructure.ErrDependencyFailure
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error().
			Int("status", resp.StatusCode).
			Str("url", url).
			Msg("Book storage returned unexpected status")
		return nil, infrastructure.ErrDependencyFailure
	}

	var bookPage entity.BookPageResponse
	if err := json.NewDecoder(resp.Body).Decode(&bookPage); err != nil {
		logger.Error().Err(err).Str("url", url).Msg("Failed to decode book storage response")
		return nil, infrastructure.ErrDependencyFailure
	}

	return &bookPage, nil
}
