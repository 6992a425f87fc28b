package util

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer обертка над Kafka writer для отправки событий каталога.
// Один writer обслуживает оба топика (book-created и book-deleted),
// топик задается на уровне сообщения.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer создает новый Kafka producer
// brokers - список брокеров Kafka в формате ["host:port"]
func NewKafkaProducer(brokers []string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr: kafka.TCP(brokers...),
		// Партиция выбирается хешем ключа: события одной книги идут
		// в одну партицию и сохраняют порядок внутри топика
		Balancer: &kafka.Hash{},
		// События каталога отправляются по одному, сразу после коммита
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaProducer{writer: writer}
}

// PublishMessage отправляет сообщение в указанный топик.
// key используется для партиционирования: события одной книги
// попадают в одну партицию и сохраняют порядок.
func (p *KafkaProducer) PublishMessage(ctx context.Context, topic, key string, value []byte) error {
	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close закрывает Kafka writer и освобождает ресурсы
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
