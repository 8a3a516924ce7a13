package entities

import (
	"bytes"
	"encoding/gob"
	"time"
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Address struct {
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
}

type Item struct {
	Code     string
	Name     string
	Price    float64
	Quantity int
}

type Order struct {
	OrderNumber     string
	UserID          string
	Items           []Item
	Customer        Customer
	DeliveryAddress Address
	Status          Status
	Comments        string
	CreatedAt       time.Time
}

// TotalAmount is always derived, never stored.
func (o Order) TotalAmount() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// OrderSummary is the projection returned by user order listings.
type OrderSummary struct {
	OrderNumber string
	Status      Status
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(o)
}

func init() {
	gob.Register(Order{})
	gob.Register(Customer{})
	gob.Register(Address{})
	gob.Register(Item{})
}
