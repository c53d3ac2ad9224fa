package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/interfaces"
)

// OrderEventHandler consumes order events in the
// notification-subscriber mode and echoes them to the console.
type OrderEventHandler struct {
	logger logger.Logger
}

func NewOrderEventHandler(logger logger.Logger) *OrderEventHandler {
	return &OrderEventHandler{logger: logger}
}

func (h *OrderEventHandler) HandleOrderEvent(ctx context.Context, body []byte) error {
	var event interfaces.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("event_parse_failed", "Failed to parse order event", "", nil, err)
		return err
	}

	h.logger.Info("order_event_received", fmt.Sprintf("Received %s for order %s", event.Event, event.OrderCode),
		event.OrderCode, map[string]interface{}{
			"event":        event.Event,
			"order_code":   event.OrderCode,
			"status":       event.Status,
			"total_amount": event.TotalAmount,
		})

	fmt.Printf("[%s] order %s (%s) - total %d, status %s\n",
		event.Event, event.OrderCode, event.CustomerName, event.TotalAmount, event.Status)

	return nil
}
