package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookhive/order-service/internal/config"
	"github.com/bookhive/order-service/internal/entities"
	"github.com/bookhive/order-service/pkg/utils"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	logger      *slog.Logger
	writer      messageWriter
	maxAttempts int
}

func NewPublisher(logger *slog.Logger, cfg config.Kafka) *Publisher {
	return &Publisher{
		logger: logger.With(slog.String("component", "events")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: cfg.BatchTimeout,
		},
		maxAttempts: cfg.MaxAttempts,
	}
}

// Publish hands one domain event to the order events topic. Delivery is
// at-least-once: transient transport failures are retried with the same
// payload, and consumers dedupe on order number + routing key. The message
// key is the order number so events of one order stay on one partition.
func (p *Publisher) Publish(ctx context.Context, event entities.OrderEvent) error {
	payload, err := json.Marshal(eventToJSON(event))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: payload,
		Time:  event.EmittedAt,
		Headers: []kafka.Header{
			{Key: "x-routing-key", Value: []byte(event.RoutingKey)},
		},
	}

	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  p.maxAttempts,
		Multiplier:   2,
	}

	err = utils.Retry(cfg, func() error {
		return p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		eventsFailed.WithLabelValues(event.RoutingKey).Inc()
		return fmt.Errorf("failed to publish %s for order %s: %w", event.RoutingKey, event.OrderNumber, err)
	}

	eventsPublished.WithLabelValues(event.RoutingKey).Inc()
	p.logger.Debug("event published",
		slog.String("routing_key", event.RoutingKey),
		slog.String("order_number", event.OrderNumber),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
