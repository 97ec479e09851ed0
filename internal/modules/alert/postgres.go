package alert

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateIfAbsent(ctx context.Context, a *StockAlert) (bool, error) {
	// The WHERE NOT EXISTS guard plus the partial unique index on
	// (item_id, alert_type) WHERE NOT is_resolved make this race-safe:
	// concurrent sweeps cannot create duplicate unresolved alerts.
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO stock_alerts (id, item_id, alert_type, message, quantity_at_alert)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM stock_alerts
			WHERE item_id = $2 AND alert_type = $3 AND NOT is_resolved
		)`,
		a.ID, a.ItemID, a.Type, a.Message, a.QuantityAtAlert)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		// Lost the race to a concurrent sweep; the alert exists.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert stock alert: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postgresRepo) ResolveOthers(ctx context.Context, itemID uuid.UUID, keep Type) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stock_alerts
		SET is_resolved = TRUE, resolved_at = NOW()
		WHERE item_id = $1 AND NOT is_resolved AND alert_type <> $2`,
		itemID, keep)
	if err != nil {
		return 0, fmt.Errorf("resolve stale alerts: %w", err)
	}
	return res.RowsAffected()
}

func (r *postgresRepo) Resolve(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stock_alerts
		SET is_resolved = TRUE, resolved_at = NOW()
		WHERE id = $1 AND NOT is_resolved`, id)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFoundf("unresolved alert %s not found", id)
	}
	return nil
}

func (r *postgresRepo) ResolveAllForItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stock_alerts
		SET is_resolved = TRUE, resolved_at = NOW()
		WHERE item_id = $1 AND NOT is_resolved`, itemID)
	if err != nil {
		return 0, fmt.Errorf("resolve alerts for item: %w", err)
	}
	return res.RowsAffected()
}

// ListActive returns unresolved alerts most-severe-first, newest first
// within a severity.
func (r *postgresRepo) ListActive(ctx context.Context) ([]*StockAlert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sa.id, sa.item_id, sa.alert_type, sa.message, sa.quantity_at_alert,
		       sa.is_resolved, sa.created_at, sa.resolved_at,
		       i.name, i.sku, i.quantity
		FROM stock_alerts sa
		JOIN items i ON i.id = sa.item_id
		WHERE NOT sa.is_resolved
		ORDER BY
			CASE sa.alert_type
				WHEN 'OUT_OF_STOCK' THEN 1
				WHEN 'LOW_STOCK' THEN 2
				WHEN 'REORDER' THEN 3
			END,
			sa.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var alerts []*StockAlert
	for rows.Next() {
		a := &StockAlert{}
		if err := rows.Scan(&a.ID, &a.ItemID, &a.Type, &a.Message, &a.QuantityAtAlert,
			&a.IsResolved, &a.CreatedAt, &a.ResolvedAt,
			&a.ItemName, &a.SKU, &a.CurrentQuantity); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *postgresRepo) Summary(ctx context.Context) (*Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT alert_type, COUNT(*)
		FROM stock_alerts
		WHERE NOT is_resolved
		GROUP BY alert_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	summary := &Summary{}
	for rows.Next() {
		var t Type
		var count int
		if err := rows.Scan(&t, &count); err != nil {
			return nil, err
		}
		switch t {
		case TypeOutOfStock:
			summary.OutOfStock = count
		case TypeLowStock:
			summary.LowStock = count
		case TypeReorder:
			summary.Reorder = count
		}
		summary.Total += count
	}
	return summary, rows.Err()
}
