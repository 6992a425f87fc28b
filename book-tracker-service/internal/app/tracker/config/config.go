package config

import (
	"os"
	"strconv"
	"strings"
)

// Config содержит все настройки book-tracker-service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Kafka      KafkaConfig
	Storage    StorageConfig
	JWT        JWTConfig
	Reconciler ReconcilerConfig
	LogLevel   string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig - настройки consumer группы событий каталога.
// Оба топика читаются одной группой: порядок событий одной книги
// гарантирован партиционированием по ее идентификатору.
type KafkaConfig struct {
	Brokers          []string
	BookCreatedTopic string
	BookDeletedTopic string
	GroupID          string
	MinBytes         int
	MaxBytes         int
}

// StorageConfig - адрес book-storage-service для обогащения данных
type StorageConfig struct {
	BaseURL string
}

// JWTConfig - секрет и issuer, общие с auth-service.
// Помимо проверки входящих токенов, сервис сам выписывает служебный
// токен для реконсилиации каталога.
type JWTConfig struct {
	Secret string
	Issuer string
}

// ReconcilerConfig - расписание сверки каталога с реестром займов
type ReconcilerConfig struct {
	Schedule string
	Enabled  bool
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	minBytes, err := strconv.Atoi(getEnv("KAFKA_MIN_BYTES", "1"))
	if err != nil {
		minBytes = 1
	}
	maxBytes, err := strconv.Atoi(getEnv("KAFKA_MAX_BYTES", "1048576"))
	if err != nil {
		maxBytes = 1048576
	}
	reconcilerEnabled, err := strconv.ParseBool(getEnv("RECONCILER_ENABLED", "true"))
	if err != nil {
		reconcilerEnabled = true
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8082"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "book_tracker"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:          strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			BookCreatedTopic: getEnv("KAFKA_BOOK_CREATED_TOPIC", "book-created"),
			BookDeletedTopic: getEnv("KAFKA_BOOK_DELETED_TOPIC", "book-deleted"),
			GroupID:          getEnv("KAFKA_GROUP_ID", "book-tracker-group"),
			MinBytes:         minBytes,
			MaxBytes:         maxBytes,
		},
		Storage: StorageConfig{
			BaseURL: getEnv("BOOK_STORAGE_URL", "http://localhost:8081"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
			Issuer: getEnv("JWT_ISSUER", "bookhive-auth"),
		},
		Reconciler: ReconcilerConfig{
			Schedule: getEnv("RECONCILER_SCHEDULE", "@every 10m"),
			Enabled:  reconcilerEnabled,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
