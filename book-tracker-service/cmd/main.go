package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookhive/book-tracker-service/internal/app/tracker/config"
	"bookhive/book-tracker-service/internal/app/tracker/entity"
	"bookhive/book-tracker-service/internal/app/tracker/handler"
	storagehttp "bookhive/book-tracker-service/internal/app/tracker/infrastructure/http"
	"bookhive/book-tracker-service/internal/app/tracker/processor"
	"bookhive/book-tracker-service/internal/app/tracker/repository"
	"bookhive/book-tracker-service/internal/app/tracker/service"
	"bookhive/pkg/logger"
	"bookhive/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("book-tracker-service", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	// Уникальный индекс по book_id обязателен: на нем держится
	// идемпотентность применения событий
	if err := db.AutoMigrate(&entity.BookLoan{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// TTL access токена нужен реконсилятору для служебного токена
	tokenManager := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, 15*time.Minute, 0)

	storageClient := storagehttp.NewStorageClient(cfg.Storage.BaseURL)
	logger.Info().Str("url", cfg.Storage.BaseURL).Msg("Initialized Book Storage Service client")

	loanRepo := repository.NewLoanRepository(db)
	loanService := service.NewLoanService(loanRepo, storageClient)

	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.BookCreatedTopic,
		cfg.Kafka.BookDeletedTopic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		loanService,
	)
	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	logger.Info().
		Str("group", cfg.Kafka.GroupID).
		Msg("Kafka consumer started")

	if cfg.Reconciler.Enabled {
		reconciler := processor.NewReconciler(loanRepo, storageClient, tokenManager)
		if err := reconciler.Start(ctx, cfg.Reconciler.Schedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start catalog reconciler")
		}
		defer reconciler.Stop()
	} else {
		logger.Warn().Msg("Catalog reconciler is disabled")
	}

	loanHandler := handler.NewLoanHandler(loanService)
	authMiddleware := handler.NewAuthMiddleware(tokenManager)
	router := handler.SetupRoutes(loanHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("Starting Book Tracker Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Book Tracker Service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Book Tracker Service stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL через GORM.
// Повторяет попытки, пока БД поднимается рядом в Docker.
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if pingErr := sqlDB.Ping(); pingErr != nil {
				err = pingErr
			} else {
				sqlDB.SetMaxOpenConns(10)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
