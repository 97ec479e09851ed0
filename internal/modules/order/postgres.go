package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/modules/inventory"
)

type postgresRepo struct {
	db                *sql.DB
	kind              Kind
	orderTable        string
	counterpartyTable string
	adjuster          inventory.Adjuster
}

// NewPostgresRepository returns the repository for one order kind. The
// adjuster is the item store's transaction-scoped quantity writer; this
// repository never touches items.quantity itself.
func NewPostgresRepository(db *sql.DB, kind Kind, adjuster inventory.Adjuster) Repository {
	r := &postgresRepo{db: db, kind: kind, adjuster: adjuster}
	if kind == KindPurchase {
		r.orderTable = "purchase_orders"
		r.counterpartyTable = "suppliers"
	} else {
		r.orderTable = "sales_orders"
		r.counterpartyTable = "customers"
	}
	return r
}

const orderColumns = `id, order_number, counterparty_id, item_id, quantity, unit_price, total_price, status, notes, created_by, created_at, completed_at`

func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO `+r.orderTable+`
		  (id, order_number, counterparty_id, item_id, quantity, unit_price, total_price, notes, created_by, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.OrderNumber, o.CounterpartyID, o.ItemID, o.Quantity,
		o.UnitPrice, o.TotalPrice, o.Notes, o.CreatedBy, o.Status)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return apperr.Conflictf("order number %s already exists", o.OrderNumber)
		case "23503":
			return apperr.NotFoundf("counterparty or item not found")
		}
	}
	if err != nil {
		return fmt.Errorf("insert %s order: %w", r.kind, err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT o.id, o.order_number, o.counterparty_id, o.item_id, o.quantity,
		       o.unit_price, o.total_price, o.status, o.notes, o.created_by,
		       o.created_at, o.completed_at,
		       c.name, i.name, i.sku, u.username
		FROM `+r.orderTable+` o
		JOIN `+r.counterpartyTable+` c ON c.id = o.counterparty_id
		JOIN items i ON i.id = o.item_id
		JOIN users u ON u.id = o.created_by
		WHERE o.id = $1`, id).
		Scan(&o.ID, &o.OrderNumber, &o.CounterpartyID, &o.ItemID, &o.Quantity,
			&o.UnitPrice, &o.TotalPrice, &o.Status, &o.Notes, &o.CreatedBy,
			&o.CreatedAt, &o.CompletedAt,
			&o.CounterpartyName, &o.ItemName, &o.ItemSKU, &o.CreatedByName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context, status Status) ([]*Order, error) {
	query := `
		SELECT o.id, o.order_number, o.counterparty_id, o.item_id, o.quantity,
		       o.unit_price, o.total_price, o.status, o.notes, o.created_by,
		       o.created_at, o.completed_at,
		       c.name, i.name, i.sku, u.username
		FROM ` + r.orderTable + ` o
		JOIN ` + r.counterpartyTable + ` c ON c.id = o.counterparty_id
		JOIN items i ON i.id = o.item_id
		JOIN users u ON u.id = o.created_by`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE o.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o := &Order{}
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CounterpartyID, &o.ItemID,
			&o.Quantity, &o.UnitPrice, &o.TotalPrice, &o.Status, &o.Notes,
			&o.CreatedBy, &o.CreatedAt, &o.CompletedAt,
			&o.CounterpartyName, &o.ItemName, &o.ItemSKU, &o.CreatedByName); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) Complete(ctx context.Context, id uuid.UUID) (*CompletionResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Conditional flip gated on affected rows: of two racing completions
	// only one sees a PENDING row.
	o := &Order{}
	err = tx.QueryRowContext(ctx, `
		UPDATE `+r.orderTable+`
		SET status = $1, completed_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+orderColumns, StatusCompleted, id, StatusPending).
		Scan(&o.ID, &o.OrderNumber, &o.CounterpartyID, &o.ItemID, &o.Quantity,
			&o.UnitPrice, &o.TotalPrice, &o.Status, &o.Notes, &o.CreatedBy,
			&o.CreatedAt, &o.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.stateError(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("complete %s order: %w", r.kind, err)
	}

	// Sales orders re-check available stock at completion time, under a
	// row lock so the check and the adjustment are one critical section.
	if r.kind == KindSales {
		available, err := r.adjuster.QuantityForUpdate(ctx, tx, o.ItemID)
		if err != nil {
			return nil, err
		}
		if available < o.Quantity {
			return nil, apperr.InsufficientStock(o.ItemID, available, o.Quantity)
		}
	}

	item, err := r.adjuster.AdjustQuantityTx(ctx, tx, o.ItemID, r.kind.Delta(o.Quantity))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit completion: %w", err)
	}
	return &CompletionResult{
		Order:       o,
		OldQuantity: item.Quantity - r.kind.Delta(o.Quantity),
		NewQuantity: item.Quantity,
	}, nil
}

func (r *postgresRepo) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE `+r.orderTable+`
		SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING `+orderColumns, StatusCancelled, id, StatusPending).
		Scan(&o.ID, &o.OrderNumber, &o.CounterpartyID, &o.ItemID, &o.Quantity,
			&o.UnitPrice, &o.TotalPrice, &o.Status, &o.Notes, &o.CreatedBy,
			&o.CreatedAt, &o.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.stateError(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("cancel %s order: %w", r.kind, err)
	}
	return o, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+r.orderTable+` WHERE id = $1 AND status = $2`, id, StatusPending)
	if err != nil {
		return fmt.Errorf("delete %s order: %w", r.kind, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return r.stateError(ctx, id)
	}
	return nil
}

func (r *postgresRepo) CounterpartyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+r.counterpartyTable+` WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

// stateError distinguishes a missing order from one in a terminal status,
// reporting the actual status for display.
func (r *postgresRepo) stateError(ctx context.Context, id uuid.UUID) error {
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM `+r.orderTable+` WHERE id=$1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("order", id)
	}
	if err != nil {
		return err
	}
	return apperr.InvalidState("order", id, status)
}
