package interfaces

import (
	"context"
	"time"

	"github.com/casalinda/pedidos/internal/domain"
)

// Repository contracts. One Postgres implementation each; tests use
// in-memory doubles.

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.ProductDetails, error)
	GetByID(ctx context.Context, productID int) (*domain.ProductDetails, error)
	ListAll(ctx context.Context, onlyAvailable bool) ([]domain.ProductDetails, error)
	SearchByName(ctx context.Context, nameQuery string) ([]domain.ProductDetails, error)
	UpdateAvailability(ctx context.Context, productID int, available bool) (*domain.ProductDetails, error)
	Update(ctx context.Context, product *domain.Product) (*domain.ProductDetails, error)
	SemanticSearch(ctx context.Context, queryEmbedding []float32, topK int, onlyAvailable bool) ([]domain.ProductSearchResult, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.OrderDetail, error)
	GetByID(ctx context.Context, orderID int) (*domain.OrderDetail, error)
	GetDetailByCode(ctx context.Context, orderCode string) (*domain.OrderDetail, error)
	UpdateStatus(ctx context.Context, orderCode string, newStatus domain.Status) (*domain.OrderDetail, error)
	UpdateItems(ctx context.Context, orderCode string, items []domain.OrderItem) (*domain.OrderDetail, error)
	ListByCustomer(ctx context.Context, customerPhone string, limit int) ([]domain.OrderDetail, error)
	Delete(ctx context.Context, orderCode string) (bool, error)
}

type ChatRepository interface {
	GetHistory(ctx context.Context, userPhone string, maxMessages int) ([]domain.Message, error)
	SaveConversation(ctx context.Context, userPhone string, messages []domain.Message) error
	DeleteSession(ctx context.Context, userPhone string) (bool, error)
}

type DailyMenuRepository interface {
	GetAvailableByDate(ctx context.Context, menuDate time.Time) ([]domain.DailyMenuItem, error)
	Create(ctx context.Context, productID, stock int, menuDate time.Time) (*domain.DailyMenuItem, error)
	UpdateStock(ctx context.Context, productID int, menuDate time.Time, newStock int) (*domain.DailyMenuItem, error)
	DecreaseStock(ctx context.Context, productID int, menuDate time.Time, quantity int) (*domain.DailyMenuItem, error)
	Delete(ctx context.Context, menuID int) (bool, error)
	DeleteByDate(ctx context.Context, menuDate time.Time) (bool, error)
}
