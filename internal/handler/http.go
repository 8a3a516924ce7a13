package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bookhive/order-service/internal/entities"
	"github.com/bookhive/order-service/internal/service"
	"github.com/bookhive/order-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// userIDHeader carries the caller identity resolved by the gateway in front
// of this service. Authentication itself happens there.
const userIDHeader = "X-User-Id"

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req service.CreateOrderRequest) (service.CreateOrderResponse, error)
	GetOrder(ctx context.Context, userID, orderNumber string) (entities.Order, error)
	ListOrders(ctx context.Context, userID string) ([]entities.OrderSummary, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
}

func NewHTTPHandler(logger *slog.Logger, svc OrderService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{order_number}", h.GetOrder)
	})
}

// CreateOrder admits a new order.
// @Summary      Create an order
// @Description  Validates the request and admits a new order in status NEW
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      CreateOrderRequest  true  "Order payload"
// @Success      201  {object}  CreateOrderResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation failure"
// @Failure      401  {object}  utils.ErrorResponse "Missing user identity"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /api/orders [post]
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		utils.WriteError(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.svc.CreateOrder(ctx, userID, CreateOrderRequestToService(req))

	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		validationFailures.Inc()
		utils.WriteJSON(w, utils.ValidationErrorResponse{
			Message: "invalid order request",
			Fields:  verr.Fields,
		}, http.StatusBadRequest)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create order", slog.Any("error", err), slog.String("user_id", userID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ordersCreated.Inc()
	utils.WriteJSON(w, CreateOrderResponse{OrderNumber: res.OrderNumber}, http.StatusCreated)
}

// GetOrder returns one order of the calling user.
// @Summary      Get an order
// @Description  Returns order detail; orders of other users are not found
// @Tags         orders
// @Produce      json
// @Param        order_number  path  string  true  "Order number"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /api/orders/{order_number} [get]
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		utils.WriteError(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	orderNumber := chi.URLParam(r, "order_number")
	if err := h.validate.Var(orderNumber, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.GetOrder(ctx, userID, orderNumber)

	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.String("order_number", orderNumber))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// ListOrders returns summaries of the calling user's orders.
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}  OrderSummary
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /api/orders [get]
func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		utils.WriteError(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	summaries, err := h.svc.ListOrders(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders", slog.Any("error", err), slog.String("user_id", userID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res := make([]OrderSummary, 0, len(summaries))
	for _, s := range summaries {
		res = append(res, SummaryEntityToJSON(s))
	}

	utils.WriteJSON(w, res, http.StatusOK)
}
