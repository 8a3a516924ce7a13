package handler

import (
	"time"

	"github.com/bookhive/order-service/internal/entities"
	"github.com/bookhive/order-service/internal/service"
)

// CreateOrderRequest is the admission payload
type CreateOrderRequest struct {
	Items           []Item   `json:"items" validate:"required,min=1,dive"`
	Customer        Customer `json:"customer" validate:"required"`
	DeliveryAddress Address  `json:"deliveryAddress" validate:"required"`
	Comments        string   `json:"comments,omitempty"`
}

// CreateOrderResponse acknowledges an admitted order
type CreateOrderResponse struct {
	OrderNumber string `json:"orderNumber"`
}

// Item is a single order line
type Item struct {
	Code     string  `json:"code" validate:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Customer contact record
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Address is the delivery address
type Address struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
}

// Order is the detail view of a single order
type Order struct {
	OrderNumber     string    `json:"orderNumber"`
	Items           []Item    `json:"items"`
	Customer        Customer  `json:"customer"`
	DeliveryAddress Address   `json:"deliveryAddress"`
	Status          string    `json:"status"`
	Comments        string    `json:"comments,omitempty"`
	TotalAmount     float64   `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// OrderSummary is one row of the user order listing
type OrderSummary struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

func ItemJSONToEntity(i Item) entities.Item {
	return entities.Item{
		Code:     i.Code,
		Name:     i.Name,
		Price:    i.Price,
		Quantity: i.Quantity,
	}
}

func ItemEntityToJSON(i entities.Item) Item {
	return Item{
		Code:     i.Code,
		Name:     i.Name,
		Price:    i.Price,
		Quantity: i.Quantity,
	}
}

func CreateOrderRequestToService(r CreateOrderRequest) service.CreateOrderRequest {
	items := make([]entities.Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ItemJSONToEntity(it))
	}

	return service.CreateOrderRequest{
		Items: items,
		Customer: entities.Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		DeliveryAddress: entities.Address{
			AddressLine1: r.DeliveryAddress.AddressLine1,
			AddressLine2: r.DeliveryAddress.AddressLine2,
			City:         r.DeliveryAddress.City,
			State:        r.DeliveryAddress.State,
			ZipCode:      r.DeliveryAddress.ZipCode,
			Country:      r.DeliveryAddress.Country,
		},
		Comments: r.Comments,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemEntityToJSON(it))
	}

	return Order{
		OrderNumber: o.OrderNumber,
		Items:       items,
		Customer: Customer{
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
			Phone: o.Customer.Phone,
		},
		DeliveryAddress: Address{
			AddressLine1: o.DeliveryAddress.AddressLine1,
			AddressLine2: o.DeliveryAddress.AddressLine2,
			City:         o.DeliveryAddress.City,
			State:        o.DeliveryAddress.State,
			ZipCode:      o.DeliveryAddress.ZipCode,
			Country:      o.DeliveryAddress.Country,
		},
		Status:      string(o.Status),
		Comments:    o.Comments,
		TotalAmount: o.TotalAmount(),
		CreatedAt:   o.CreatedAt,
	}
}

func SummaryEntityToJSON(s entities.OrderSummary) OrderSummary {
	return OrderSummary{
		OrderNumber: s.OrderNumber,
		Status:      string(s.Status),
	}
}
