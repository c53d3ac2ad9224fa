package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type fakeOrderRepo struct {
	byCode map[string]*domain.OrderDetail
	nextID int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byCode: make(map[string]*domain.OrderDetail)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.OrderDetail, error) {
	r.nextID++
	items := make([]domain.OrderItemDetail, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, domain.OrderItemDetail{
			ProductID:    it.ProductID,
			ProductName:  fmt.Sprintf("product-%d", it.ProductID),
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
			Subtotal:     it.Quantity * it.PricePerUnit,
		})
	}
	detail := &domain.OrderDetail{
		OrderID:         r.nextID,
		OrderCode:       order.Code,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		PaymentMethod:   order.PaymentMethod,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		Items:           items,
	}
	r.byCode[order.Code] = detail
	return detail, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, orderID int) (*domain.OrderDetail, error) {
	for _, d := range r.byCode {
		if d.OrderID == orderID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
}

func (r *fakeOrderRepo) GetDetailByCode(_ context.Context, code string) (*domain.OrderDetail, error) {
	d, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: order %q", domain.ErrNotFound, code)
	}
	return d, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, code string, newStatus domain.Status) (*domain.OrderDetail, error) {
	d, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: order %q", domain.ErrNotFound, code)
	}
	d.Status = newStatus
	return d, nil
}

func (r *fakeOrderRepo) UpdateItems(_ context.Context, code string, items []domain.OrderItem) (*domain.OrderDetail, error) {
	d, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: order %q", domain.ErrNotFound, code)
	}
	details := make([]domain.OrderItemDetail, 0, len(items))
	for _, it := range items {
		details = append(details, domain.OrderItemDetail{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
			Subtotal:     it.Quantity * it.PricePerUnit,
		})
	}
	d.Items = details
	d.TotalAmount = domain.TotalFromItems(items)
	return d, nil
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, phone string, limit int) ([]domain.OrderDetail, error) {
	var out []domain.OrderDetail
	for _, d := range r.byCode {
		if d.CustomerPhone == phone {
			out = append(out, *d)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, code string) (bool, error) {
	if _, ok := r.byCode[code]; !ok {
		return false, nil
	}
	delete(r.byCode, code)
	return true, nil
}

type fakePublisher struct {
	events []interfaces.OrderEvent
	fail   bool
}

func (p *fakePublisher) PublishOrderCreated(_ context.Context, event interfaces.OrderEvent) error {
	if p.fail {
		return fmt.Errorf("broker gone")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) PublishStatusChanged(_ context.Context, event interfaces.OrderEvent) error {
	if p.fail {
		return fmt.Errorf("broker gone")
	}
	p.events = append(p.events, event)
	return nil
}

func validCommand() interfaces.CreateOrderCommand {
	return interfaces.CreateOrderCommand{
		CustomerName:    "Maria",
		CustomerPhone:   "+56911111111",
		CustomerAddress: "Av. Siempre Viva 742",
		PaymentMethod:   "efectivo",
		Items: []interfaces.CreateOrderItemCommand{
			{ProductID: 1, Quantity: 2, PricePerUnit: 4500},
			{ProductID: 2, Quantity: 1, PricePerUnit: 3000},
		},
	}
}

func TestCreateOrderComputesTotal(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, logger.New("test"))

	cmd := validCommand()
	cmd.TotalAmount = 1 // client-supplied totals are ignored

	detail, err := svc.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, 2*4500+3000, detail.TotalAmount)
	assert.Equal(t, domain.StatusPending, detail.Status)
	assert.Len(t, detail.OrderCode, domain.OrderCodeLength)

	require.Len(t, pub.events, 1)
	assert.Equal(t, interfaces.EventOrderCreated, pub.events[0].Event)
	assert.Equal(t, detail.OrderCode, pub.events[0].OrderCode)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), nil, logger.New("test"))

	noItems := validCommand()
	noItems.Items = nil
	_, err := svc.CreateOrder(context.Background(), noItems)
	assert.ErrorIs(t, err, domain.ErrValidation)

	badMethod := validCommand()
	badMethod.PaymentMethod = "cheque"
	_, err = svc.CreateOrder(context.Background(), badMethod)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrderSurvivesPublisherFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakePublisher{fail: true}, logger.New("test"))

	detail, err := svc.CreateOrder(context.Background(), validCommand())
	require.NoError(t, err)
	assert.NotEmpty(t, detail.OrderCode)
}

func TestUpdateOrderStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, logger.New("test"))

	created, err := svc.CreateOrder(context.Background(), validCommand())
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(context.Background(), created.OrderCode, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	_, err = svc.UpdateOrderStatus(context.Background(), created.OrderCode, "lost")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateOrderStatus(context.Background(), "zzzzzz", domain.StatusCanceled)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.Len(t, pub.events, 2)
	assert.Equal(t, interfaces.EventOrderStatusChanged, pub.events[1].Event)
}

func TestUpdateOrderItemsRetotals(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, nil, logger.New("test"))

	created, err := svc.CreateOrder(context.Background(), validCommand())
	require.NoError(t, err)

	updated, err := svc.UpdateOrderItems(context.Background(), created.OrderCode, []interfaces.CreateOrderItemCommand{
		{ProductID: 3, Quantity: 4, PricePerUnit: 1000},
	})
	require.NoError(t, err)
	assert.Equal(t, 4000, updated.TotalAmount)
	assert.Len(t, updated.Items, 1)
}

func TestDeleteOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, nil, logger.New("test"))

	created, err := svc.CreateOrder(context.Background(), validCommand())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), created.OrderCode))
	assert.ErrorIs(t, svc.DeleteOrder(context.Background(), created.OrderCode), domain.ErrNotFound)
}
