package entities

import "time"

// Routing keys of the order events exchange. One key per lifecycle
// transition; consumers are expected to be idempotent on
// order number + routing key.
const (
	RoutingKeyCreated   = "order.created"
	RoutingKeyDelivered = "order.delivered"
	RoutingKeyCancelled = "order.cancelled"
	RoutingKeyError     = "order.error"
)

// RoutingKeyForStatus maps a committed target status to its routing key.
// The IN_PROCESS transition is internal bookkeeping and publishes nothing.
func RoutingKeyForStatus(s Status) (string, bool) {
	switch s {
	case StatusDelivered:
		return RoutingKeyDelivered, true
	case StatusCancelled:
		return RoutingKeyCancelled, true
	case StatusError:
		return RoutingKeyError, true
	}
	return "", false
}

// OrderEvent is an immutable fact describing a committed transition. It is
// constructed after the store commit and never mutated afterwards.
type OrderEvent struct {
	RoutingKey  string
	OrderNumber string
	UserID      string
	Status      Status
	Items       []Item
	Customer    Customer
	TotalAmount float64
	EmittedAt   time.Time
}

func NewOrderEvent(routingKey string, order Order) OrderEvent {
	return OrderEvent{
		RoutingKey:  routingKey,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		Items:       order.Items,
		Customer:    order.Customer,
		TotalAmount: order.TotalAmount(),
		EmittedAt:   time.Now().UTC(),
	}
}
