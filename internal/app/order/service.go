package order

import (
	"context"
	"fmt"
	"time"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

// listByCustomerLimit caps how many recent orders a customer lookup
// returns.
const listByCustomerLimit = 3

type Service struct {
	repo      interfaces.OrderRepository
	publisher interfaces.EventPublisher
	logger    logger.Logger
}

// NewService builds the order service. publisher may be nil when
// messaging is disabled.
func NewService(repo interfaces.OrderRepository, publisher interfaces.EventPublisher, lgr logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    lgr,
	}
}

// CreateOrder validates the command, generates an order code, computes
// the total from the items and persists everything in one transaction.
// A client-supplied total_amount is ignored.
func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.OrderDetail, error) {
	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, it := range cmd.Items {
		items = append(items, domain.OrderItem{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
		})
	}

	order, err := domain.NewOrder(cmd.CustomerName, cmd.CustomerPhone, cmd.CustomerAddress, domain.PaymentMethod(cmd.PaymentMethod), domain.TotalFromItems(items), items)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_created", "Order created", "", map[string]interface{}{
		"order_code":   detail.OrderCode,
		"total_amount": detail.TotalAmount,
		"items":        len(detail.Items),
	})

	s.publishEvent(ctx, interfaces.EventOrderCreated, detail)

	return detail, nil
}

func (s *Service) GetOrderByID(ctx context.Context, orderID int) (*domain.OrderDetail, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive", domain.ErrValidation)
	}
	return s.repo.GetByID(ctx, orderID)
}

func (s *Service) GetOrderByCode(ctx context.Context, orderCode string) (*domain.OrderDetail, error) {
	if orderCode == "" {
		return nil, fmt.Errorf("%w: order code must not be empty", domain.ErrValidation)
	}
	return s.repo.GetDetailByCode(ctx, orderCode)
}

func (s *Service) GetOrderDetailByCode(ctx context.Context, orderCode string) (*domain.OrderDetail, error) {
	return s.GetOrderByCode(ctx, orderCode)
}

// UpdateOrderStatus overwrites the order status. Any valid status may
// replace any other, cancellations included.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderCode string, newStatus domain.Status) (*domain.OrderDetail, error) {
	if orderCode == "" {
		return nil, fmt.Errorf("%w: order code must not be empty", domain.ErrValidation)
	}
	if !domain.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, newStatus)
	}

	detail, err := s.repo.UpdateStatus(ctx, orderCode, newStatus)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_status_updated", "Order status updated", "", map[string]interface{}{
		"order_code": orderCode,
		"status":     string(newStatus),
	})

	s.publishEvent(ctx, interfaces.EventOrderStatusChanged, detail)

	return detail, nil
}

// UpdateOrderItems replaces the order items and recomputes the total.
func (s *Service) UpdateOrderItems(ctx context.Context, orderCode string, items []interfaces.CreateOrderItemCommand) (*domain.OrderDetail, error) {
	if orderCode == "" {
		return nil, fmt.Errorf("%w: order code must not be empty", domain.ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", domain.ErrValidation)
	}

	domainItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 || it.PricePerUnit <= 0 {
			return nil, fmt.Errorf("%w: invalid order item", domain.ErrValidation)
		}
		domainItems = append(domainItems, domain.OrderItem{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
		})
	}

	return s.repo.UpdateItems(ctx, orderCode, domainItems)
}

func (s *Service) ListOrdersByCustomer(ctx context.Context, customerPhone string) ([]domain.OrderDetail, error) {
	if customerPhone == "" {
		return nil, fmt.Errorf("%w: customer phone must not be empty", domain.ErrValidation)
	}
	return s.repo.ListByCustomer(ctx, customerPhone, listByCustomerLimit)
}

func (s *Service) DeleteOrder(ctx context.Context, orderCode string) error {
	if orderCode == "" {
		return fmt.Errorf("%w: order code must not be empty", domain.ErrValidation)
	}

	deleted, err := s.repo.Delete(ctx, orderCode)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: order %q", domain.ErrNotFound, orderCode)
	}

	s.logger.Info("order_deleted", "Order deleted", "", map[string]interface{}{
		"order_code": orderCode,
	})

	return nil
}

// publishEvent emits an order event after the database change has
// committed. Publish failures are logged and do not fail the request.
func (s *Service) publishEvent(ctx context.Context, eventType string, detail *domain.OrderDetail) {
	if s.publisher == nil {
		return
	}

	event := interfaces.OrderEvent{
		Event:         eventType,
		OrderCode:     detail.OrderCode,
		CustomerName:  detail.CustomerName,
		CustomerPhone: detail.CustomerPhone,
		TotalAmount:   detail.TotalAmount,
		Status:        detail.Status,
		Timestamp:     time.Now().UTC(),
	}

	var err error
	switch eventType {
	case interfaces.EventOrderCreated:
		err = s.publisher.PublishOrderCreated(ctx, event)
	case interfaces.EventOrderStatusChanged:
		err = s.publisher.PublishStatusChanged(ctx, event)
	}
	if err != nil {
		s.logger.Warn("event_publish_failed", "Failed to publish order event", "", map[string]interface{}{
			"event_type": eventType,
			"order_code": detail.OrderCode,
			"error":      err.Error(),
		})
	}
}

var _ interfaces.OrderService = (*Service)(nil)
