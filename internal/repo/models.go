package repo

import (
	"database/sql"
	"time"

	"github.com/bookhive/order-service/internal/entities"
)

type Order struct {
	OrderNumber   string         `db:"order_number"`
	UserID        string         `db:"user_id"`
	CustomerName  string         `db:"customer_name"`
	CustomerEmail string         `db:"customer_email"`
	CustomerPhone string         `db:"customer_phone"`
	AddressLine1  string         `db:"address_line1"`
	AddressLine2  sql.NullString `db:"address_line2"`
	City          string         `db:"city"`
	State         string         `db:"state"`
	ZipCode       string         `db:"zip_code"`
	Country       string         `db:"country"`
	Status        string         `db:"status"`
	Comments      sql.NullString `db:"comments"`
	CreatedAt     time.Time      `db:"created_at"`
}

type Item struct {
	OrderNumber string  `db:"order_number"`
	Code        string  `db:"code"`
	Name        string  `db:"name"`
	Price       float64 `db:"price"`
	Quantity    int     `db:"quantity"`
}

func ItemToEntity(i Item) entities.Item {
	return entities.Item{
		Code:     i.Code,
		Name:     i.Name,
		Price:    i.Price,
		Quantity: i.Quantity,
	}
}

func OrderToEntity(o Order, items []Item) entities.Order {
	order := entities.Order{
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Customer: entities.Customer{
			Name:  o.CustomerName,
			Email: o.CustomerEmail,
			Phone: o.CustomerPhone,
		},
		DeliveryAddress: entities.Address{
			AddressLine1: o.AddressLine1,
			AddressLine2: nullStringToString(o.AddressLine2),
			City:         o.City,
			State:        o.State,
			ZipCode:      o.ZipCode,
			Country:      o.Country,
		},
		Status:    entities.Status(o.Status),
		Comments:  nullStringToString(o.Comments),
		CreatedAt: o.CreatedAt,
	}

	if len(items) > 0 {
		order.Items = make([]entities.Item, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, ItemToEntity(it))
		}
	}

	return order
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
