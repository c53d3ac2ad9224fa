package interfaces

import (
	"context"
	"time"

	"github.com/casalinda/pedidos/internal/domain"
)

// Commands carried from the HTTP layer into services.

type CreateProductCommand struct {
	Name        string
	Description string
	Price       int
	Available   bool
}

type CreateOrderItemCommand struct {
	ProductID    int `json:"product_id"`
	Quantity     int `json:"quantity"`
	PricePerUnit int `json:"price_per_unit"`
}

type CreateOrderCommand struct {
	CustomerName    string                   `json:"customer_name"`
	CustomerPhone   string                   `json:"customer_phone"`
	CustomerAddress string                   `json:"customer_address"`
	PaymentMethod   string                   `json:"payment_method"`
	TotalAmount     int                      `json:"total_amount"`
	Items           []CreateOrderItemCommand `json:"items"`
}

// Service contracts (business logic layer).

type ProductService interface {
	CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.ProductDetails, error)
	GetProductByID(ctx context.Context, productID int) (*domain.ProductDetails, error)
	GetAllProducts(ctx context.Context, onlyAvailable bool) ([]domain.ProductDetails, error)
	SearchByName(ctx context.Context, nameQuery string) ([]domain.ProductDetails, error)
	UpdateAvailability(ctx context.Context, productID int, available bool) (*domain.ProductDetails, error)
	UpdateProduct(ctx context.Context, productID int, cmd CreateProductCommand) (*domain.ProductDetails, error)
	SemanticSearch(ctx context.Context, queryEmbedding []float32, topK int, onlyAvailable bool) ([]domain.ProductSearchResult, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.OrderDetail, error)
	GetOrderByID(ctx context.Context, orderID int) (*domain.OrderDetail, error)
	GetOrderByCode(ctx context.Context, orderCode string) (*domain.OrderDetail, error)
	GetOrderDetailByCode(ctx context.Context, orderCode string) (*domain.OrderDetail, error)
	UpdateOrderStatus(ctx context.Context, orderCode string, newStatus domain.Status) (*domain.OrderDetail, error)
	UpdateOrderItems(ctx context.Context, orderCode string, items []CreateOrderItemCommand) (*domain.OrderDetail, error)
	ListOrdersByCustomer(ctx context.Context, customerPhone string) ([]domain.OrderDetail, error)
	DeleteOrder(ctx context.Context, orderCode string) error
}

type ChatService interface {
	GetHistory(ctx context.Context, userPhone string, maxMessages int) ([]domain.Message, error)
	SaveConversation(ctx context.Context, userPhone string, messages []domain.Message) error
	DeleteSession(ctx context.Context, userPhone string) (bool, error)
}

type DailyMenuService interface {
	GetAvailableMenu(ctx context.Context, menuDate time.Time) ([]domain.DailyMenuItem, error)
	AddMenuItem(ctx context.Context, productID, stock int, menuDate time.Time) (*domain.DailyMenuItem, error)
	UpdateStock(ctx context.Context, productID int, menuDate time.Time, newStock int) (*domain.DailyMenuItem, error)
	DecreaseStock(ctx context.Context, productID int, menuDate time.Time, quantity int) (*domain.DailyMenuItem, error)
	DeleteMenuItem(ctx context.Context, menuID int) error
	DeleteByDate(ctx context.Context, menuDate time.Time) error
}

type AgentService interface {
	Respond(ctx context.Context, customerPhone, message string) (string, error)
}
