package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusCanceled  Status = "canceled"
	StatusDelivered Status = "delivered"
)

// ValidStatus reports whether s is one of the closed status set.
// Transitions between statuses are deliberately unconstrained.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProcess, StatusCanceled, StatusDelivered:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentCard     PaymentMethod = "tarjeta"
	PaymentTransfer PaymentMethod = "transferencia"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Order represents a customer order. Code is the short human-facing
// identifier, distinct from the internal ID.
type Order struct {
	ID              int
	Code            string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   PaymentMethod
	TotalAmount     int
	Status          Status
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem references one product with the price captured at order
// time. Later product price changes never affect past orders.
type OrderItem struct {
	ID           int
	OrderID      int
	ProductID    int
	Quantity     int
	PricePerUnit int
}

// OrderItemDetail is an order item joined with its product name.
type OrderItemDetail struct {
	ProductID    int    `json:"product_id"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	PricePerUnit int    `json:"price_per_unit"`
	Subtotal     int    `json:"subtotal"`
}

// OrderDetail is the denormalized order view with joined items.
type OrderDetail struct {
	OrderID         int               `json:"order_id"`
	OrderCode       string            `json:"order_code"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerAddress string            `json:"customer_address"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	TotalAmount     int               `json:"total_amount"`
	Status          Status            `json:"status"`
	Items           []OrderItemDetail `json:"items"`
}

const orderCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// OrderCodeLength is the length of generated order codes.
const OrderCodeLength = 6

// NewOrderCode generates a short lowercase-alphanumeric order code.
// Random bytes past the last full multiple of the alphabet size are
// discarded so every character of the alphabet is equally likely.
func NewOrderCode() (string, error) {
	limit := 256 - 256%len(orderCodeAlphabet)
	code := make([]byte, 0, OrderCodeLength)
	buf := make([]byte, OrderCodeLength)
	for len(code) < OrderCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate order code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, orderCodeAlphabet[int(b)%len(orderCodeAlphabet)])
			if len(code) == OrderCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// TotalFromItems computes the order total as the sum of
// quantity x price_per_unit over all items.
func TotalFromItems(items []OrderItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity * item.PricePerUnit
	}
	return total
}

// Validate applies business rules for order creation.
func (o *Order) Validate() error {
	if o.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if o.CustomerPhone == "" {
		return fmt.Errorf("%w: customer phone is required", ErrValidation)
	}
	if o.CustomerAddress == "" {
		return fmt.Errorf("%w: customer address is required", ErrValidation)
	}
	if !ValidPaymentMethod(o.PaymentMethod) {
		return fmt.Errorf("%w: payment method must be one of: efectivo, tarjeta, transferencia", ErrValidation)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	for _, item := range o.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: item product id must be positive", ErrValidation)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		if item.PricePerUnit <= 0 {
			return fmt.Errorf("%w: item price per unit must be positive", ErrValidation)
		}
	}
	if o.TotalAmount <= 0 {
		return fmt.Errorf("%w: total amount must be positive", ErrValidation)
	}
	return nil
}

// NewOrder builds a pending order with a freshly generated code.
func NewOrder(name, phone, address string, method PaymentMethod, totalAmount int, items []OrderItem) (*Order, error) {
	order := &Order{
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: address,
		PaymentMethod:   method,
		TotalAmount:     totalAmount,
		Status:          StatusPending,
		Items:           items,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	code, err := NewOrderCode()
	if err != nil {
		return nil, err
	}
	order.Code = code

	return order, nil
}
