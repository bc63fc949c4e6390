package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicCart    = "cart_events"
	TopicOrder   = "order_events"
	TopicUser    = "user_events"
	TopicProduct = "product_events"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId,omitempty"`
	ProductID  string    `json:"productId,omitempty"`
	OrderID    string    `json:"orderId,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer does not dial; connections are opened on first write.
func NewProducer(brokers []string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}}
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Noop drops every event; used when no brokers are configured.
type Noop struct{}

func (Noop) PublishEvent(context.Context, string, string, any) error { return nil }
