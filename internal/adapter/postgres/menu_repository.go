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

type dailyMenuRepository struct {
	db DB
}

func NewDailyMenuRepository(db DB) interfaces.DailyMenuRepository {
	return &dailyMenuRepository{db: db}
}

const menuItemColumns = `
	dm.id, dm.product_id, p.name, p.description, p.price, dm.stock,
	to_char(dm.menu_date, 'YYYY-MM-DD')`

func (r *dailyMenuRepository) GetAvailableByDate(ctx context.Context, menuDate time.Time) ([]domain.DailyMenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM daily_menu dm
		JOIN products p ON p.id = dm.product_id
		WHERE dm.menu_date = $1 AND dm.stock > 0 AND p.available
		ORDER BY dm.id
	`
	rows, err := r.db.Query(ctx, query, menuDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily menu: %w", err)
	}
	defer rows.Close()

	var items []domain.DailyMenuItem
	for rows.Next() {
		var item domain.DailyMenuItem
		if err := rows.Scan(&item.MenuID, &item.ProductID, &item.ProductName, &item.Description,
			&item.Price, &item.Stock, &item.MenuDate); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read daily menu: %w", err)
	}

	return items, nil
}

func (r *dailyMenuRepository) Create(ctx context.Context, productID, stock int, menuDate time.Time) (*domain.DailyMenuItem, error) {
	var menuID int
	err := r.db.QueryRow(ctx,
		`INSERT INTO daily_menu (product_id, stock, menu_date) VALUES ($1, $2, $3) RETURNING id`,
		productID, stock, menuDate,
	).Scan(&menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert menu item: %w", err)
	}

	return r.getByID(ctx, menuID)
}

func (r *dailyMenuRepository) UpdateStock(ctx context.Context, productID int, menuDate time.Time, newStock int) (*domain.DailyMenuItem, error) {
	var menuID int
	err := r.db.QueryRow(ctx,
		`UPDATE daily_menu SET stock = $1 WHERE product_id = $2 AND menu_date = $3 RETURNING id`,
		newStock, productID, menuDate,
	).Scan(&menuID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: menu entry for product %d", domain.ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update menu stock: %w", err)
	}

	return r.getByID(ctx, menuID)
}

// DecreaseStock subtracts quantity atomically. When the remaining
// stock is smaller than quantity the update matches no row, nothing
// changes and the caller gets not-found.
func (r *dailyMenuRepository) DecreaseStock(ctx context.Context, productID int, menuDate time.Time, quantity int) (*domain.DailyMenuItem, error) {
	var menuID int
	err := r.db.QueryRow(ctx, `
		UPDATE daily_menu
		SET stock = stock - $1
		WHERE product_id = $2 AND menu_date = $3 AND stock >= $1
		RETURNING id`,
		quantity, productID, menuDate,
	).Scan(&menuID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: menu entry for product %d with stock >= %d", domain.ErrNotFound, productID, quantity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decrease menu stock: %w", err)
	}

	return r.getByID(ctx, menuID)
}

func (r *dailyMenuRepository) Delete(ctx context.Context, menuID int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM daily_menu WHERE id = $1`, menuID)
	if err != nil {
		return false, fmt.Errorf("failed to delete menu item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *dailyMenuRepository) DeleteByDate(ctx context.Context, menuDate time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM daily_menu WHERE menu_date = $1`, menuDate)
	if err != nil {
		return false, fmt.Errorf("failed to delete menu items: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *dailyMenuRepository) getByID(ctx context.Context, menuID int) (*domain.DailyMenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM daily_menu dm
		JOIN products p ON p.id = dm.product_id
		WHERE dm.id = $1
	`
	var item domain.DailyMenuItem
	err := r.db.QueryRow(ctx, query, menuID).Scan(
		&item.MenuID, &item.ProductID, &item.ProductName, &item.Description,
		&item.Price, &item.Stock, &item.MenuDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: menu item %d lost its product reference", domain.ErrIntegrity, menuID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return &item, nil
}
