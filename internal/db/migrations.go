package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist. The CHECK on
// items.quantity and the partial unique index on unresolved alerts back the
// application-level invariants at the storage layer.
func Migrate(ctx context.Context, database *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'STAFF',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			contact_name TEXT,
			email TEXT,
			phone TEXT,
			address TEXT,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			contact_name TEXT,
			email TEXT,
			phone TEXT,
			address TEXT,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id UUID PRIMARY KEY,
			sku TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
			min_stock_level INTEGER NOT NULL DEFAULT 0 CHECK (min_stock_level >= 0),
			reorder_point INTEGER NOT NULL DEFAULT 0 CHECK (reorder_point >= 0),
			barcode TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS purchase_orders (
			id UUID PRIMARY KEY,
			order_number TEXT UNIQUE NOT NULL,
			counterparty_id UUID NOT NULL REFERENCES suppliers(id) ON DELETE RESTRICT,
			item_id UUID NOT NULL REFERENCES items(id) ON DELETE RESTRICT,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
			total_price NUMERIC(14,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			notes TEXT,
			created_by UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS sales_orders (
			id UUID PRIMARY KEY,
			order_number TEXT UNIQUE NOT NULL,
			counterparty_id UUID NOT NULL REFERENCES customers(id) ON DELETE RESTRICT,
			item_id UUID NOT NULL REFERENCES items(id) ON DELETE RESTRICT,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
			total_price NUMERIC(14,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			notes TEXT,
			created_by UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS stock_alerts (
			id UUID PRIMARY KEY,
			item_id UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			alert_type TEXT NOT NULL,
			message TEXT NOT NULL,
			quantity_at_alert INTEGER NOT NULL,
			is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			resolved_at TIMESTAMPTZ
		)`,
		// At most one unresolved alert per (item, type).
		`CREATE UNIQUE INDEX IF NOT EXISTS stock_alerts_active_uniq
			ON stock_alerts (item_id, alert_type) WHERE NOT is_resolved`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id BIGSERIAL PRIMARY KEY,
			actor_id UUID,
			actor_name TEXT NOT NULL,
			action TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			resource_id UUID,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS purchase_orders_status_idx ON purchase_orders (status)`,
		`CREATE INDEX IF NOT EXISTS sales_orders_status_idx ON sales_orders (status)`,
		`CREATE INDEX IF NOT EXISTS stock_alerts_item_idx ON stock_alerts (item_id)`,
	}

	for _, stmt := range statements {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
