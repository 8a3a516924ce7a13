package service

import (
	"fmt"
	"strings"

	"github.com/bookhive/order-service/internal/entities"

	"github.com/go-playground/validator/v10"
)

// CreateOrderRequest is the admission payload after transport decoding.
type CreateOrderRequest struct {
	Items           []entities.Item
	Customer        entities.Customer
	DeliveryAddress entities.Address
	Comments        string
}

// OrderValidator checks business rules of a creation request. It is
// stateless and performs no I/O; all violations are collected so the caller
// learns about every problem at once.
type OrderValidator struct {
	validate         *validator.Validate
	allowedCountries map[string]struct{}
}

func NewOrderValidator(allowedCountries []string) *OrderValidator {
	countries := make(map[string]struct{}, len(allowedCountries))
	for _, c := range allowedCountries {
		countries[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}

	return &OrderValidator{
		validate:         validator.New(),
		allowedCountries: countries,
	}
}

func (v *OrderValidator) Validate(req CreateOrderRequest) error {
	verr := entities.NewValidationError()

	v.validateCustomer(req.Customer, verr)
	v.validateAddress(req.DeliveryAddress, verr)
	v.validateItems(req.Items, verr)

	if verr.HasViolations() {
		return verr
	}
	return nil
}

// CanDeliverTo reports whether the country belongs to the allowed
// delivery-country set.
func (v *OrderValidator) CanDeliverTo(country string) bool {
	_, ok := v.allowedCountries[strings.ToUpper(strings.TrimSpace(country))]
	return ok
}

func (v *OrderValidator) validateCustomer(c entities.Customer, verr *entities.ValidationError) {
	if strings.TrimSpace(c.Name) == "" {
		verr.Add("customer.name", "customer name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		verr.Add("customer.email", "customer email is required")
	} else if v.validate.Var(c.Email, "email") != nil {
		verr.Add("customer.email", "customer email must be well-formed")
	}
	if strings.TrimSpace(c.Phone) == "" {
		verr.Add("customer.phone", "customer phone number is required")
	}
}

func (v *OrderValidator) validateAddress(a entities.Address, verr *entities.ValidationError) {
	if strings.TrimSpace(a.AddressLine1) == "" {
		verr.Add("deliveryAddress.addressLine1", "address line 1 is required")
	}
	if strings.TrimSpace(a.City) == "" {
		verr.Add("deliveryAddress.city", "city is required")
	}
	if strings.TrimSpace(a.State) == "" {
		verr.Add("deliveryAddress.state", "state is required")
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		verr.Add("deliveryAddress.zipCode", "zip code is required")
	}
	if strings.TrimSpace(a.Country) == "" {
		verr.Add("deliveryAddress.country", "country is required")
	} else if !v.CanDeliverTo(a.Country) {
		verr.Add("deliveryAddress.country", "delivery is not available for country "+a.Country)
	}
}

func (v *OrderValidator) validateItems(items []entities.Item, verr *entities.ValidationError) {
	if len(items) == 0 {
		verr.Add("items", "order must contain at least one item")
		return
	}

	for i, it := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(it.Code) == "" {
			verr.Add(prefix+".code", "item code is required")
		}
		if it.Quantity <= 0 {
			verr.Add(prefix+".quantity", "item quantity must be positive")
		}
		if it.Price < 0 {
			verr.Add(prefix+".price", "item price must not be negative")
		}
	}
}
