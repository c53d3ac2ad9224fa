package menu

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
)

type fakeMenuRepo struct {
	entries map[string]*domain.DailyMenuItem // key productID|date
	nextID  int
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{entries: make(map[string]*domain.DailyMenuItem)}
}

func menuKey(productID int, menuDate time.Time) string {
	return fmt.Sprintf("%d|%s", productID, menuDate.Format("2006-01-02"))
}

func (r *fakeMenuRepo) GetAvailableByDate(_ context.Context, menuDate time.Time) ([]domain.DailyMenuItem, error) {
	var out []domain.DailyMenuItem
	for _, e := range r.entries {
		if e.MenuDate == menuDate.Format("2006-01-02") && e.Stock > 0 {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) Create(_ context.Context, productID, stock int, menuDate time.Time) (*domain.DailyMenuItem, error) {
	r.nextID++
	item := &domain.DailyMenuItem{
		MenuID:    r.nextID,
		ProductID: productID,
		Stock:     stock,
		MenuDate:  menuDate.Format("2006-01-02"),
	}
	r.entries[menuKey(productID, menuDate)] = item
	return item, nil
}

func (r *fakeMenuRepo) UpdateStock(_ context.Context, productID int, menuDate time.Time, newStock int) (*domain.DailyMenuItem, error) {
	e, ok := r.entries[menuKey(productID, menuDate)]
	if !ok {
		return nil, fmt.Errorf("%w: menu entry", domain.ErrNotFound)
	}
	e.Stock = newStock
	return e, nil
}

func (r *fakeMenuRepo) DecreaseStock(_ context.Context, productID int, menuDate time.Time, quantity int) (*domain.DailyMenuItem, error) {
	e, ok := r.entries[menuKey(productID, menuDate)]
	if !ok || e.Stock < quantity {
		return nil, fmt.Errorf("%w: menu entry with enough stock", domain.ErrNotFound)
	}
	e.Stock -= quantity
	return e, nil
}

func (r *fakeMenuRepo) Delete(_ context.Context, menuID int) (bool, error) {
	for k, e := range r.entries {
		if e.MenuID == menuID {
			delete(r.entries, k)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMenuRepo) DeleteByDate(_ context.Context, menuDate time.Time) (bool, error) {
	deleted := false
	for k, e := range r.entries {
		if e.MenuDate == menuDate.Format("2006-01-02") {
			delete(r.entries, k)
			deleted = true
		}
	}
	return deleted, nil
}

type fakeProductRepo struct {
	known map[int]bool
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID int) (*domain.ProductDetails, error) {
	if !r.known[productID] {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	return &domain.ProductDetails{ID: productID, Name: "Cazuela", Description: "Cazuela de vacuno", Price: 6500, Available: true}, nil
}

func (r *fakeProductRepo) Create(_ context.Context, _ *domain.Product) (*domain.ProductDetails, error) {
	panic("not used")
}

func (r *fakeProductRepo) ListAll(_ context.Context, _ bool) ([]domain.ProductDetails, error) {
	panic("not used")
}

func (r *fakeProductRepo) SearchByName(_ context.Context, _ string) ([]domain.ProductDetails, error) {
	panic("not used")
}

func (r *fakeProductRepo) UpdateAvailability(_ context.Context, _ int, _ bool) (*domain.ProductDetails, error) {
	panic("not used")
}

func (r *fakeProductRepo) Update(_ context.Context, _ *domain.Product) (*domain.ProductDetails, error) {
	panic("not used")
}

func (r *fakeProductRepo) SemanticSearch(_ context.Context, _ []float32, _ int, _ bool) ([]domain.ProductSearchResult, error) {
	panic("not used")
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func TestAddMenuItem(t *testing.T) {
	svc := NewService(newFakeMenuRepo(), &fakeProductRepo{known: map[int]bool{1: true}}, logger.New("test"))

	item, err := svc.AddMenuItem(context.Background(), 1, 5, today())
	require.NoError(t, err)
	assert.Equal(t, 5, item.Stock)

	_, err = svc.AddMenuItem(context.Background(), 2, 5, today())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddMenuItem(context.Background(), 1, 0, today())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AddMenuItem(context.Background(), 1, 5, today().AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDecreaseStock(t *testing.T) {
	repo := newFakeMenuRepo()
	svc := NewService(repo, &fakeProductRepo{known: map[int]bool{1: true}}, logger.New("test"))

	_, err := svc.AddMenuItem(context.Background(), 1, 5, today())
	require.NoError(t, err)

	item, err := svc.DecreaseStock(context.Background(), 1, today(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Stock)

	// Asking for more than what is left fails and leaves stock alone.
	_, err = svc.DecreaseStock(context.Background(), 1, today(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	remaining, err := svc.GetAvailableMenu(context.Background(), today())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 2, remaining[0].Stock)

	_, err = svc.DecreaseStock(context.Background(), 1, today(), 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteByDate(t *testing.T) {
	repo := newFakeMenuRepo()
	svc := NewService(repo, &fakeProductRepo{known: map[int]bool{1: true}}, logger.New("test"))

	_, err := svc.AddMenuItem(context.Background(), 1, 5, today())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByDate(context.Background(), today()))
	assert.ErrorIs(t, svc.DeleteByDate(context.Background(), today()), domain.ErrNotFound)
}
