package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookhive/book-storage-service/internal/app/storage/config"
	"bookhive/book-storage-service/internal/app/storage/handler"
	"bookhive/book-storage-service/internal/app/storage/repository"
	"bookhive/book-storage-service/internal/app/storage/service"
	"bookhive/book-storage-service/internal/app/storage/util"
	"bookhive/pkg/logger"
	"bookhive/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("book-storage-service", cfg.LogLevel)

	db, err := connectDB(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	logger.Info().Msg("Successfully connected to PostgreSQL")

	redisClient, err := util.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Successfully connected to Redis")

	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers)
	defer kafkaProducer.Close()
	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("created_topic", cfg.Kafka.BookCreatedTopic).
		Str("deleted_topic", cfg.Kafka.BookDeletedTopic).
		Msg("Kafka producer initialized")

	// TTL токенов здесь не используются: сервис только проверяет токены
	tokenManager := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, 0, 0)

	bookRepo := repository.NewBookRepository(db)

	bookService := service.NewBookService(
		bookRepo,
		redisClient,
		kafkaProducer,
		cfg.Kafka.BookCreatedTopic,
		cfg.Kafka.BookDeletedTopic,
	)

	bookHandler := handler.NewBookHandler(bookService)
	authMiddleware := handler.NewAuthMiddleware(tokenManager)

	router := handler.SetupRoutes(bookHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("Starting Book Storage Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Book Storage Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Book Storage Service stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL через пул pgx.
// Повторяет попытки, пока БД поднимается рядом в Docker.
func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database")
		time.Sleep(3 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
	}

	return pool, nil
}
