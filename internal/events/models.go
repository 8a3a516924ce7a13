package events

import (
	"time"

	"github.com/bookhive/order-service/internal/entities"
)

// OrderEventJSON is the wire form of a domain event.
type OrderEventJSON struct {
	RoutingKey  string     `json:"routing_key"`
	OrderNumber string     `json:"order_number"`
	UserID      string     `json:"user_id"`
	Status      string     `json:"status"`
	Items       []ItemJSON `json:"items"`
	Customer    Customer   `json:"customer"`
	TotalAmount float64    `json:"total_amount"`
	EmittedAt   time.Time  `json:"emitted_at"`
}

type ItemJSON struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func eventToJSON(e entities.OrderEvent) OrderEventJSON {
	items := make([]ItemJSON, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, ItemJSON{
			Code:     it.Code,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	return OrderEventJSON{
		RoutingKey:  e.RoutingKey,
		OrderNumber: e.OrderNumber,
		UserID:      e.UserID,
		Status:      string(e.Status),
		Items:       items,
		Customer: Customer{
			Name:  e.Customer.Name,
			Email: e.Customer.Email,
			Phone: e.Customer.Phone,
		},
		TotalAmount: e.TotalAmount,
		EmittedAt:   e.EmittedAt,
	}
}
