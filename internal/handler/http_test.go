package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookhive/order-service/internal/entities"
	"github.com/bookhive/order-service/internal/handler"
	"github.com/bookhive/order-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	createFn func(ctx context.Context, userID string, req service.CreateOrderRequest) (service.CreateOrderResponse, error)
	getFn    func(ctx context.Context, userID, orderNumber string) (entities.Order, error)
	listFn   func(ctx context.Context, userID string) ([]entities.OrderSummary, error)
}

func (m *mockService) CreateOrder(ctx context.Context, userID string, req service.CreateOrderRequest) (service.CreateOrderResponse, error) {
	return m.createFn(ctx, userID, req)
}

func (m *mockService) GetOrder(ctx context.Context, userID, orderNumber string) (entities.Order, error) {
	return m.getFn(ctx, userID, orderNumber)
}

func (m *mockService) ListOrders(ctx context.Context, userID string) ([]entities.OrderSummary, error) {
	return m.listFn(ctx, userID)
}

func newRouter(svc handler.OrderService) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	handler.NewHTTPHandler(logger, svc).Init(r)
	return r
}

func createBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(handler.CreateOrderRequest{
		Items: []handler.Item{{Code: "P100", Name: "Product 1", Price: 25.50, Quantity: 1}},
		Customer: handler.Customer{
			Name:  "John Doe",
			Email: "john.doe@example.com",
			Phone: "1234567890",
		},
		DeliveryAddress: handler.Address{
			AddressLine1: "1 Main Street",
			City:         "Berlin",
			State:        "Berlin",
			ZipCode:      "10115",
			Country:      "GERMANY",
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHTTPHandler_CreateOrder(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &mockService{
			createFn: func(_ context.Context, userID string, req service.CreateOrderRequest) (service.CreateOrderResponse, error) {
				assert.Equal(t, "user-1", userID)
				assert.Equal(t, "GERMANY", req.DeliveryAddress.Country)
				return service.CreateOrderResponse{OrderNumber: "order-123"}, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/orders", createBody(t))
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var res handler.CreateOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "order-123", res.OrderNumber)
	})

	t.Run("missing user identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", createBody(t))
		rec := httptest.NewRecorder()
		newRouter(&mockService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{not json"))
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		newRouter(&mockService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure reports fields", func(t *testing.T) {
		verr := entities.NewValidationError()
		verr.Add("customer.email", "must be a valid email address")
		verr.Add("items", "order must contain at least one item")

		svc := &mockService{
			createFn: func(context.Context, string, service.CreateOrderRequest) (service.CreateOrderResponse, error) {
				return service.CreateOrderResponse{}, verr
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/orders", createBody(t))
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var res struct {
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "must be a valid email address", res.Fields["customer.email"])
		assert.Equal(t, "order must contain at least one item", res.Fields["items"])
	})

	t.Run("internal error", func(t *testing.T) {
		svc := &mockService{
			createFn: func(context.Context, string, service.CreateOrderRequest) (service.CreateOrderResponse, error) {
				return service.CreateOrderResponse{}, errors.New("db down")
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/orders", createBody(t))
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHTTPHandler_GetOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockService{
			getFn: func(_ context.Context, userID, orderNumber string) (entities.Order, error) {
				assert.Equal(t, "user-1", userID)
				assert.Equal(t, "order-123", orderNumber)
				return entities.Order{
					OrderNumber: "order-123",
					UserID:      "user-1",
					Items:       []entities.Item{{Code: "P100", Price: 25.50, Quantity: 1}},
					Status:      entities.StatusDelivered,
				}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/orders/order-123", nil)
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var res handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "order-123", res.OrderNumber)
		assert.Equal(t, string(entities.StatusDelivered), res.Status)
		assert.InDelta(t, 25.50, res.TotalAmount, 1e-9)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockService{
			getFn: func(context.Context, string, string) (entities.Order, error) {
				return entities.Order{}, entities.ErrOrderNotFound
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil)
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing user identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/order-123", nil)
		rec := httptest.NewRecorder()
		newRouter(&mockService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHTTPHandler_ListOrders(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &mockService{
			listFn: func(_ context.Context, userID string) ([]entities.OrderSummary, error) {
				assert.Equal(t, "user-1", userID)
				return []entities.OrderSummary{
					{OrderNumber: "order-1", Status: entities.StatusNew},
					{OrderNumber: "order-2", Status: entities.StatusDelivered},
				}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var res []handler.OrderSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Len(t, res, 2)
		assert.Equal(t, "order-1", res[0].OrderNumber)
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		svc := &mockService{
			listFn: func(context.Context, string) ([]entities.OrderSummary, error) {
				return nil, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}
