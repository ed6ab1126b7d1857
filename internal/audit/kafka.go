package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"comment-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher mirrors audit entries to a topic as JSON, keyed by the
// acting user so one user's actions stay ordered within a partition.
type KafkaPublisher struct {
	writer Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w}
}

// NewKafkaPublisherWithWriter allows injecting a test writer.
func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, entry *models.LogEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding audit entry: %w", err)
	}

	key := "system"
	if entry.UserID != nil {
		key = strconv.FormatInt(*entry.UserID, 10)
	}

	msg := kafka.Message{Key: []byte(key), Value: b, Time: entry.Timestamp}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing audit entry to kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
