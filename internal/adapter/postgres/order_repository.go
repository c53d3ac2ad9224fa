package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/casalinda/pedidos/internal/domain"
	"github.com/casalinda/pedidos/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order and all its items in one transaction,
// then re-reads the denormalized detail with joined product names.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) (*domain.OrderDetail, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (order_code, customer_name, customer_phone, customer_address,
		                    payment_method, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.Code, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
		order.PaymentMethod, order.TotalAmount, order.Status, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price_per_unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i := range order.Items {
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, order.Items[i].ProductID, order.Items[i].Quantity, order.Items[i].PricePerUnit,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items[i].OrderID = order.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return r.GetDetailByCode(ctx, order.Code)
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int) (*domain.OrderDetail, error) {
	var code string
	err := r.db.QueryRow(ctx, `SELECT order_code FROM orders WHERE id = $1`, orderID).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return r.GetDetailByCode(ctx, code)
}

// GetDetailByCode assembles the order with joined items and product
// names. An order whose items reference a missing product surfaces as
// an integrity error, not as not-found.
func (r *orderRepository) GetDetailByCode(ctx context.Context, orderCode string) (*domain.OrderDetail, error) {
	query := `
		SELECT id, order_code, customer_name, customer_phone, customer_address,
		       payment_method, total_amount, status
		FROM orders
		WHERE order_code = $1
	`

	var detail domain.OrderDetail
	err := r.db.QueryRow(ctx, query, orderCode).Scan(
		&detail.OrderID, &detail.OrderCode, &detail.CustomerName, &detail.CustomerPhone,
		&detail.CustomerAddress, &detail.PaymentMethod, &detail.TotalAmount, &detail.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.queryItemDetails(ctx, detail.OrderID)
	if err != nil {
		return nil, err
	}
	detail.Items = items

	return &detail, nil
}

func (r *orderRepository) queryItemDetails(ctx context.Context, orderID int) ([]domain.OrderItemDetail, error) {
	var itemCount int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, orderID).Scan(&itemCount); err != nil {
		return nil, fmt.Errorf("failed to count order items: %w", err)
	}

	query := `
		SELECT oi.product_id, p.name, oi.quantity, oi.price_per_unit,
		       oi.quantity * oi.price_per_unit AS subtotal
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItemDetail
	for rows.Next() {
		var item domain.OrderItemDetail
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.PricePerUnit, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	// Items that exist but lost their product reference through the
	// join indicate corrupt data.
	if len(items) != itemCount {
		return nil, fmt.Errorf("%w: order %d has %d items but only %d resolve to products",
			domain.ErrIntegrity, orderID, itemCount, len(items))
	}

	return items, nil
}

// UpdateStatus overwrites the status unconditionally; any status may
// follow any other.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderCode string, newStatus domain.Status) (*domain.OrderDetail, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE order_code = $3`,
		newStatus, time.Now(), orderCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderCode)
	}

	return r.GetDetailByCode(ctx, orderCode)
}

// UpdateItems replaces every item of the order and recomputes the
// total, all inside one transaction.
func (r *orderRepository) UpdateItems(ctx context.Context, orderCode string, items []domain.OrderItem) (*domain.OrderDetail, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx, `SELECT id FROM orders WHERE order_code = $1`, orderCode).Scan(&orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return nil, fmt.Errorf("failed to delete order items: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price_per_unit)
		VALUES ($1, $2, $3, $4)
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery, orderID, item.ProductID, item.Quantity, item.PricePerUnit); err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	totalAmount := domain.TotalFromItems(items)
	if _, err := tx.Exec(ctx,
		`UPDATE orders SET total_amount = $1, updated_at = $2 WHERE id = $3`,
		totalAmount, time.Now(), orderID,
	); err != nil {
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit item update: %w", err)
	}

	return r.GetDetailByCode(ctx, orderCode)
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerPhone string, limit int) ([]domain.OrderDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT order_code FROM orders WHERE customer_phone = $1 ORDER BY id DESC LIMIT $2`,
		customerPhone, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order code: %w", err)
		}
		codes = append(codes, code)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	details := make([]domain.OrderDetail, 0, len(codes))
	for _, code := range codes {
		detail, err := r.GetDetailByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}

	return details, nil
}

// Delete removes the order; items go with it via ON DELETE CASCADE.
func (r *orderRepository) Delete(ctx context.Context, orderCode string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE order_code = $1`, orderCode)
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
