package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookhive/book-storage-service/internal/app/storage/entity"

	"github.com/redis/go-redis/v9"
)

// Кешируется только первая страница каталога с параметрами по умолчанию -
// самый частый запрос. Остальные страницы всегда идут в БД.
const booksCacheKey = "books:first-page"

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

func (r *RedisClient) SetBookPage(ctx context.Context, page *entity.BookPageResponse, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal book page: %w", err)
	}

	if err := r.client.Set(ctx, booksCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set book page in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetBookPage(ctx context.Context) (*entity.BookPageResponse, error) {
	data, err := r.client.Get(ctx, booksCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book page from cache: %w", err)
	}

	var page entity.BookPageResponse
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal book page: %w", err)
	}

	return &page, nil
}

func (r *RedisClient) DeleteBookPage(ctx context.Context) error {
	if err := r.client.Del(ctx, booksCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete book page from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
