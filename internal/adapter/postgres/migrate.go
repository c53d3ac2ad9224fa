package postgres

import (
	"context"
	"fmt"
)

// Migrate bootstraps the pgvector extension and the schema. All
// statements are idempotent so it runs on every startup.
func Migrate(ctx context.Context, db DB) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS products (
			id          SERIAL PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			price       INTEGER NOT NULL CHECK (price > 0),
			available   BOOLEAN NOT NULL DEFAULT TRUE,
			embedding   vector(768),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id               SERIAL PRIMARY KEY,
			order_code       TEXT NOT NULL UNIQUE,
			customer_name    TEXT NOT NULL,
			customer_phone   TEXT NOT NULL,
			customer_address TEXT NOT NULL,
			payment_method   TEXT NOT NULL,
			total_amount     INTEGER NOT NULL CHECK (total_amount > 0),
			status           TEXT NOT NULL DEFAULT 'pending',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer_phone ON orders (customer_phone)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id             SERIAL PRIMARY KEY,
			order_id       INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id     INTEGER NOT NULL REFERENCES products(id),
			quantity       INTEGER NOT NULL CHECK (quantity > 0),
			price_per_unit INTEGER NOT NULL CHECK (price_per_unit > 0)
		)`,
		`CREATE TABLE IF NOT EXISTS daily_menu (
			id         SERIAL PRIMARY KEY,
			product_id INTEGER NOT NULL REFERENCES products(id),
			stock      INTEGER NOT NULL CHECK (stock >= 0),
			menu_date  DATE NOT NULL,
			UNIQUE (product_id, menu_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_menu_date ON daily_menu (menu_date)`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id         SERIAL PRIMARY KEY,
			user_phone TEXT NOT NULL UNIQUE,
			history    JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
