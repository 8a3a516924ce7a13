package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bookhive/order-service/internal/entities"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	// errs is consumed one per call; nil entries mean success.
	errs []error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	var err error
	if len(w.errs) > 0 {
		err = w.errs[0]
		w.errs = w.errs[1:]
	}
	if err != nil {
		return err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func testEvent() entities.OrderEvent {
	return entities.NewOrderEvent(entities.RoutingKeyDelivered, entities.Order{
		OrderNumber: "order-123",
		UserID:      "user-1",
		Status:      entities.StatusDelivered,
		Items:       []entities.Item{{Code: "P100", Name: "Product 1", Price: 25.50, Quantity: 1}},
		Customer:    entities.Customer{Name: "John Doe", Email: "john@example.com", Phone: "1234567890"},
	})
}

func newTestPublisher(writer messageWriter) *Publisher {
	return &Publisher{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		writer:      writer,
		maxAttempts: 3,
	}
}

func TestPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newTestPublisher(writer)

	require.NoError(t, publisher.Publish(context.Background(), testEvent()))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "order-123", string(msg.Key))

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "x-routing-key", msg.Headers[0].Key)
	assert.Equal(t, entities.RoutingKeyDelivered, string(msg.Headers[0].Value))

	var payload OrderEventJSON
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, entities.RoutingKeyDelivered, payload.RoutingKey)
	assert.Equal(t, "order-123", payload.OrderNumber)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, string(entities.StatusDelivered), payload.Status)
	assert.InDelta(t, 25.50, payload.TotalAmount, 1e-9)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "P100", payload.Items[0].Code)
	assert.Equal(t, "john@example.com", payload.Customer.Email)
	assert.False(t, payload.EmittedAt.IsZero())
}

func TestPublisher_Publish_RetriesTransientFailures(t *testing.T) {
	writer := &fakeWriter{errs: []error{
		errors.New("broker not available"),
		errors.New("broker not available"),
		nil,
	}}
	publisher := newTestPublisher(writer)

	require.NoError(t, publisher.Publish(context.Background(), testEvent()))
	require.Len(t, writer.messages, 1)
}

func TestPublisher_Publish_FailsAfterExhaustedAttempts(t *testing.T) {
	transport := errors.New("broker not available")
	writer := &fakeWriter{errs: []error{transport, transport, transport}}
	publisher := newTestPublisher(writer)

	err := publisher.Publish(context.Background(), testEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, transport)
	assert.Empty(t, writer.messages)
}
