package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookhive/book-tracker-service/internal/app/tracker/service"
	"bookhive/pkg/logger"
	"bookhive/pkg/metrics"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const serviceName = "book-tracker-service"

// KafkaConsumer читает события каталога из топиков book-created и
// book-deleted одной consumer группой и применяет их к реестру займов.
type KafkaConsumer struct {
	reader       *kafka.Reader
	loanSvc      service.LoanServiceInterface
	createdTopic string
	deletedTopic string
	groupID      string
	commit       func(ctx context.Context, messages ...kafka.Message) error
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	createdTopic string,
	deletedTopic string,
	groupID string,
	minBytes int,
	maxBytes int,
	loanSvc service.LoanServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupTopics: []string{createdTopic, deletedTopic},
		GroupID:     groupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		// Новая группа начинает с самого старого сообщения, чтобы
		// реестр собрался и по книгам, созданным до первого запуска
		StartOffset:    kafka.FirstOffset,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:       reader,
		loanSvc:      loanSvc,
		createdTopic: createdTopic,
		deletedTopic: deletedTopic,
		groupID:      groupID,
		commit:       reader.CommitMessages,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().
		Str("group", c.groupID).
		Strs("topics", []string{c.createdTopic, c.deletedTopic}).
		Msg("Starting Kafka consumer")

	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if errors.Is(err, context.DeadlineExceeded) {
					// Таймаут ожидания - новых сообщений просто нет
					continue
				}

				metrics.RecordKafkaError(serviceName, "all", "fetch")
				logger.Error().Err(err).Msg("Error fetching message")
				time.Sleep(time.Second)
				continue
			}

			c.handleMessage(ctx, message)
		}
	}
}

// handleMessage применяет сообщение и коммитит offset.
// Offset коммитится только после успешного применения: при сбое
// сообщение будет доставлено повторно, применение идемпотентно.
func (c *KafkaConsumer) handleMessage(ctx context.Context, message kafka.Message) {
	metrics.RecordKafkaMessageConsumed(serviceName, message.Topic, c.groupID)

	if err := c.processMessage(ctx, message); err != nil {
		metrics.RecordKafkaError(serviceName, message.Topic, "process")
		logger.Error().Err(err).
			Str("topic", message.Topic).
			Int64("offset", message.Offset).
			Msg("Error processing message")
		return
	}

	if err := c.commit(ctx, message); err != nil {
		metrics.RecordKafkaError(serviceName, message.Topic, "commit")
		logger.Error().Err(err).Msg("Error committing message")
	}
}

// processMessage применяет одно событие каталога.
// Тело сообщения - идентификатор книги строкой в UTF-8.
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	bookID, err := uuid.Parse(strings.TrimSpace(string(message.Value)))
	if err != nil {
		// Мусорное сообщение ретраями не чинится, логируем и коммитим
		logger.Warn().
			Str("topic", message.Topic).
			Str("payload", string(message.Value)).
			Msg("Skipping malformed book event")
		return nil
	}

	logger.Info().
		Str("topic", message.Topic).
		Str("book_id", bookID.String()).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received book event")

	switch message.Topic {
	case c.createdTopic:
		return c.loanSvc.ApplyBookCreated(ctx, bookID)
	case c.deletedTopic:
		return c.loanSvc.ApplyBookDeleted(ctx, bookID)
	default:
		return fmt.Errorf("unexpected topic: %s", message.Topic)
	}
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
