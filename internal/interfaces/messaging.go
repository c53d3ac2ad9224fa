package interfaces

import (
	"context"
	"time"

	"github.com/casalinda/pedidos/internal/domain"
)

// OrderEvent is published to RabbitMQ after an order write commits.
type OrderEvent struct {
	Event         string        `json:"event"`
	OrderCode     string        `json:"order_code"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	TotalAmount   int           `json:"total_amount"`
	Status        domain.Status `json:"status"`
	Timestamp     time.Time     `json:"timestamp"`
}

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderEvent) error
	PublishStatusChanged(ctx context.Context, event OrderEvent) error
}

type OrderEventHandler func(ctx context.Context, body []byte) error

type EventConsumer interface {
	ConsumeOrderEvents(ctx context.Context, handler OrderEventHandler) error
}
