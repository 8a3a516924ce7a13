package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookhive/order-service/internal/entities"
	"github.com/bookhive/order-service/pkg/trm"
	"github.com/bookhive/order-service/pkg/utils"

	"github.com/google/uuid"
)

type OrderRepo interface {
	GetOrderByNumber(ctx context.Context, orderNumber string) (entities.Order, error)
	GetUserOrder(ctx context.Context, userID, orderNumber string) (entities.Order, error)
	FindByStatus(ctx context.Context, status entities.Status) ([]entities.Order, error)
	FindSummariesByUser(ctx context.Context, userID string) ([]entities.OrderSummary, error)

	SaveOrder(ctx context.Context, o entities.Order) error
	SaveItems(ctx context.Context, orderNumber string, items []entities.Item) error
	UpdateStatus(ctx context.Context, orderNumber string, current, target entities.Status) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entities.OrderEvent) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Remove(key string)
}

type CreateOrderResponse struct {
	OrderNumber string
}

// orderService owns the order lifecycle. It is the only component that
// mutates order status; the publisher only observes committed transitions.
type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	publisher EventPublisher
	validator *OrderValidator
	cache     Cache
}

func NewOrderService(
	logger *slog.Logger,
	txManager trm.Manager,
	repo OrderRepo,
	publisher EventPublisher,
	validator *OrderValidator,
	cache Cache,
) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		publisher: publisher,
		validator: validator,
		cache:     cache,
	}
}

// CreateOrder validates the request, persists a NEW order atomically and
// publishes order.created after the commit. If persistence fails no event
// is emitted.
func (s *orderService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (CreateOrderResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return CreateOrderResponse{}, err
	}

	order := entities.Order{
		OrderNumber:     uuid.NewString(),
		UserID:          userID,
		Items:           req.Items,
		Customer:        req.Customer,
		DeliveryAddress: req.DeliveryAddress,
		Status:          entities.StatusNew,
		Comments:        req.Comments,
		CreatedAt:       time.Now().UTC(),
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.SaveOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		if err := s.repo.SaveItems(ctx, order.OrderNumber, order.Items); err != nil {
			return fmt.Errorf("failed to save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return CreateOrderResponse{}, err
	}

	s.logger.Info("order created",
		slog.String("order_number", order.OrderNumber),
		slog.String("user_id", userID),
	)

	s.publishEvent(ctx, entities.RoutingKeyCreated, order)
	return CreateOrderResponse{OrderNumber: order.OrderNumber}, nil
}

// Advance moves an order one step along the lifecycle graph. The status
// update is a compare-and-swap on the current status, so re-attempting an
// already-advanced order fails with ErrInvalidTransition and mutates nothing.
func (s *orderService) Advance(ctx context.Context, orderNumber string, target entities.Status) (entities.Order, error) {
	order, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return entities.Order{}, err
	}

	if !order.Status.CanTransitionTo(target) {
		return entities.Order{}, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, order.Status, target)
	}

	if err := s.repo.UpdateStatus(ctx, orderNumber, order.Status, target); err != nil {
		return entities.Order{}, err
	}

	order.Status = target
	s.cache.Remove(orderNumber)

	if routingKey, ok := entities.RoutingKeyForStatus(target); ok {
		s.publishEvent(ctx, routingKey, order)
	}
	return order, nil
}

// GetOrder returns the order scoped to the requesting user. An order owned
// by someone else is reported as not found, never as a separate
// authorization failure.
func (s *orderService) GetOrder(ctx context.Context, userID, orderNumber string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderNumber); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err == nil {
			if order.UserID != userID {
				return entities.Order{}, entities.ErrOrderNotFound
			}
			return order, nil
		}
		s.cache.Remove(orderNumber)
	}

	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.repo.GetUserOrder(ctx, userID, orderNumber)
		return err
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  3,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}

	if data, err := order.Marshal(); err == nil {
		s.cache.Set(orderNumber, data)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID string) ([]entities.OrderSummary, error) {
	return s.repo.FindSummariesByUser(ctx, userID)
}

// ProcessNewOrders drives every NEW order through the lifecycle. Each order
// is handled independently; one failure never aborts the batch. The job
// holding the scheduler lock calls this at most once per tick cluster-wide.
func (s *orderService) ProcessNewOrders(ctx context.Context) error {
	orders, err := s.repo.FindByStatus(ctx, entities.StatusNew)
	if err != nil {
		return fmt.Errorf("failed to find new orders: %w", err)
	}

	s.logger.Info("processing new orders", slog.Int("count", len(orders)))

	for _, order := range orders {
		s.processOrder(ctx, order)
	}
	return nil
}

func (s *orderService) processOrder(ctx context.Context, order entities.Order) {
	if _, err := s.Advance(ctx, order.OrderNumber, entities.StatusInProcess); err != nil {
		// A lost CAS means another cycle already picked the order up; a
		// transient store error leaves it NEW for the next tick. Neither
		// warrants ERROR.
		level := slog.LevelError
		if errors.Is(err, entities.ErrInvalidTransition) || errors.Is(err, entities.ErrOrderNotFound) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "failed to pick up order",
			slog.String("order_number", order.OrderNumber),
			slog.Any("error", err),
		)
		return
	}

	target := entities.StatusDelivered
	if !s.validator.CanDeliverTo(order.DeliveryAddress.Country) {
		target = entities.StatusCancelled
	}

	if _, err := s.Advance(ctx, order.OrderNumber, target); err != nil {
		s.logger.Error("failed to advance order",
			slog.String("order_number", order.OrderNumber),
			slog.String("target", string(target)),
			slog.Any("error", err),
		)
		s.markError(ctx, order.OrderNumber)
	}
}

// markError parks an order that failed mid-processing in the terminal ERROR
// state. IN_PROCESS orders are not refetched by later cycles, so leaving the
// order there would strand it.
func (s *orderService) markError(ctx context.Context, orderNumber string) {
	if _, err := s.Advance(ctx, orderNumber, entities.StatusError); err != nil {
		s.logger.Error("failed to mark order as errored",
			slog.String("order_number", orderNumber),
			slog.Any("error", err),
		)
	}
}

func (s *orderService) publishEvent(ctx context.Context, routingKey string, order entities.Order) {
	// Publication failure never reverses a committed transition; the store
	// is the source of truth and the next consumer read will see it.
	if err := s.publisher.Publish(ctx, entities.NewOrderEvent(routingKey, order)); err != nil {
		s.logger.Warn("failed to publish order event",
			slog.String("routing_key", routingKey),
			slog.String("order_number", order.OrderNumber),
			slog.Any("error", err),
		)
	}
}
