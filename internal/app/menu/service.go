package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type Service struct {
	repo     interfaces.DailyMenuRepository
	products interfaces.ProductRepository
	logger   logger.Logger
}

func NewService(repo interfaces.DailyMenuRepository, products interfaces.ProductRepository, lgr logger.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		logger:   lgr,
	}
}

// GetAvailableMenu lists menu entries for the date with stock left,
// joined with available products only.
func (s *Service) GetAvailableMenu(ctx context.Context, menuDate time.Time) ([]domain.DailyMenuItem, error) {
	return s.repo.GetAvailableByDate(ctx, menuDate)
}

// AddMenuItem puts a product on the menu for a date with an initial
// stock. The product must exist.
func (s *Service) AddMenuItem(ctx context.Context, productID, stock int, menuDate time.Time) (*domain.DailyMenuItem, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrValidation)
	}
	if stock <= 0 {
		return nil, fmt.Errorf("%w: stock must be positive", domain.ErrValidation)
	}
	if pastDate(menuDate) {
		return nil, fmt.Errorf("%w: menu date must not be in the past", domain.ErrValidation)
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	item, err := s.repo.Create(ctx, productID, stock, menuDate)
	if err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_added", "Product added to daily menu", "", map[string]interface{}{
		"product_id": productID,
		"menu_date":  menuDate.Format("2006-01-02"),
		"stock":      stock,
	})

	return item, nil
}

func (s *Service) UpdateStock(ctx context.Context, productID int, menuDate time.Time, newStock int) (*domain.DailyMenuItem, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrValidation)
	}
	if newStock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}
	return s.repo.UpdateStock(ctx, productID, menuDate, newStock)
}

// DecreaseStock atomically subtracts quantity from the entry's stock.
// It fails without touching stock when the remaining stock is smaller
// than quantity.
func (s *Service) DecreaseStock(ctx context.Context, productID int, menuDate time.Time, quantity int) (*domain.DailyMenuItem, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	return s.repo.DecreaseStock(ctx, productID, menuDate, quantity)
}

func (s *Service) DeleteMenuItem(ctx context.Context, menuID int) error {
	if menuID <= 0 {
		return fmt.Errorf("%w: menu id must be positive", domain.ErrValidation)
	}

	deleted, err := s.repo.Delete(ctx, menuID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: menu entry %d", domain.ErrNotFound, menuID)
	}
	return nil
}

func (s *Service) DeleteByDate(ctx context.Context, menuDate time.Time) error {
	deleted, err := s.repo.DeleteByDate(ctx, menuDate)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: no menu entries for %s", domain.ErrNotFound, menuDate.Format("2006-01-02"))
	}
	return nil
}

// pastDate reports whether d falls on a calendar day before today in
// d's own location.
func pastDate(d time.Time) bool {
	now := time.Now().In(d.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, d.Location())
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return day.Before(today)
}

var _ interfaces.DailyMenuService = (*Service)(nil)
