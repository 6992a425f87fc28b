package util

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestNewKafkaProducer(t *testing.T) {
	// Act
	producer := NewKafkaProducer([]string{"localhost:9092"})
	defer producer.Close()

	// Assert
	assert.NotNil(t, producer)
	assert.NotNil(t, producer.writer)
}

func TestKafkaProducer_SameKeyStaysOnOnePartition(t *testing.T) {
	// Arrange
	producer := NewKafkaProducer([]string{"localhost:9092"})
	defer producer.Close()

	balancer := producer.writer.Balancer
	partitions := []int{0, 1, 2}
	key := []byte(uuid.New().String())

	// Act: одно и то же событие книги отправляется многократно
	seen := make(map[int]bool)
	for i := 0; i < 10; i++ {
		message := kafka.Message{
			Topic: "book-created",
			Key:   key,
			Value: []byte(fmt.Sprintf("payload-%d", i)),
		}
		seen[balancer.Balance(message, partitions...)] = true
	}

	// Assert: ключ всегда попадает в одну партицию, иначе порядок
	// событий одной книги не гарантирован
	assert.Len(t, seen, 1, "events for one book id must land on a single partition")
}

func TestKafkaProducer_KeysSpreadAcrossPartitions(t *testing.T) {
	// Arrange
	producer := NewKafkaProducer([]string{"localhost:9092"})
	defer producer.Close()

	balancer := producer.writer.Balancer
	partitions := []int{0, 1, 2}

	// Act: много разных книг
	seen := make(map[int]bool)
	for i := 0; i < 64; i++ {
		message := kafka.Message{
			Topic: "book-created",
			Key:   []byte(uuid.New().String()),
			Value: []byte("payload"),
		}
		seen[balancer.Balance(message, partitions...)] = true
	}

	// Assert
	assert.Greater(t, len(seen), 1, "different book ids should use more than one partition")
}
