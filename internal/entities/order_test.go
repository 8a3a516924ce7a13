package entities_test

import (
	"testing"
	"time"

	"github.com/bookhive/order-service/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_TotalAmount(t *testing.T) {
	order := entities.Order{
		Items: []entities.Item{
			{Code: "P100", Price: 25.50, Quantity: 1},
			{Code: "P101", Price: 10, Quantity: 3},
		},
	}

	assert.InDelta(t, 55.50, order.TotalAmount(), 1e-9)
	assert.Zero(t, entities.Order{}.TotalAmount())
}

func TestOrder_MarshalRoundTrip(t *testing.T) {
	order := entities.Order{
		OrderNumber: "order-123",
		UserID:      "user-1",
		Items:       []entities.Item{{Code: "P100", Name: "Product 1", Price: 25.50, Quantity: 1}},
		Customer:    entities.Customer{Name: "John Doe", Email: "john@example.com", Phone: "1234567890"},
		Status:      entities.StatusNew,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := order.Marshal()
	require.NoError(t, err)

	var got entities.Order
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, order, got)
}
