package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
)

const itemColumns = `id, sku, name, description, quantity, price, min_stock_level, reorder_point, barcode, created_at, updated_at`

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository returns the Postgres item store. The returned value
// also satisfies Adjuster for use inside order-completion transactions.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{postgresRepo{db: db}}
}

// PostgresRepository implements Repository and Adjuster.
type PostgresRepository struct{ postgresRepo }

func (r *postgresRepo) Create(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (id, sku, name, description, quantity, price, min_stock_level, reorder_point, barcode)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		item.ID, item.SKU, item.Name, item.Description, item.Quantity,
		item.Price, item.MinStockLevel, item.ReorderPoint, item.Barcode)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperr.Conflictf("sku or barcode already exists")
	}
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("item", id)
	}
	return item, err
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE sku=$1`, sku))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("item with sku %q not found", sku)
	}
	return item, err
}

func (r *postgresRepo) List(ctx context.Context) ([]*Item, error) {
	return r.queryItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name ASC`)
}

func (r *postgresRepo) Search(ctx context.Context, q string) ([]*Item, error) {
	like := "%" + q + "%"
	return r.queryItems(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE name ILIKE $1 OR sku ILIKE $1 OR COALESCE(barcode,'') ILIKE $1
		ORDER BY name ASC`, like)
}

// Update writes the editable fields. Quantity is intentionally excluded;
// AdjustQuantity is its only writer.
func (r *postgresRepo) Update(ctx context.Context, item *Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name=$1, description=$2, price=$3, min_stock_level=$4, reorder_point=$5, barcode=$6, updated_at=NOW()
		WHERE id=$7`,
		item.Name, item.Description, item.Price, item.MinStockLevel,
		item.ReorderPoint, item.Barcode, item.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperr.Conflictf("barcode already exists")
	}
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("item", item.ID)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id=$1`, id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return apperr.Conflictf("item is referenced by existing orders")
	}
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("item", id)
	}
	return nil
}

func (r *postgresRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*Item, error) {
	return r.adjust(ctx, r.db, id, delta)
}

func (r *postgresRepo) AdjustQuantityTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, delta int) (*Item, error) {
	return r.adjust(ctx, tx, id, delta)
}

func (r *postgresRepo) QuantityForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (int, error) {
	var qty int
	err := tx.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id=$1 FOR UPDATE`, id).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NotFound("item", id)
	}
	return qty, err
}

type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// adjust is the single sanctioned writer of items.quantity. The condition in
// the UPDATE makes the read-modify-write atomic; two concurrent completions
// against the same item serialize on the row instead of losing an update.
func (r *postgresRepo) adjust(ctx context.Context, q execQuerier, id uuid.UUID, delta int) (*Item, error) {
	item, err := scanItem(q.QueryRowContext(ctx, `
		UPDATE items
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2 AND quantity + $1 >= 0
		RETURNING `+itemColumns, delta, id))
	if errors.Is(err, sql.ErrNoRows) {
		// Either the item is missing or the delta would go negative.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id=$1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("item", id)
		}
		return nil, apperr.NegativeQuantity(id)
	}
	return item, err
}

func (r *postgresRepo) LowStock(ctx context.Context) ([]*Item, error) {
	return r.queryItems(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE quantity <= min_stock_level
		ORDER BY quantity ASC`)
}

func (r *postgresRepo) queryItems(ctx context.Context, query string, args ...interface{}) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.SKU, &item.Name, &item.Description,
			&item.Quantity, &item.Price, &item.MinStockLevel, &item.ReorderPoint,
			&item.Barcode, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row *sql.Row) (*Item, error) {
	item := &Item{}
	err := row.Scan(&item.ID, &item.SKU, &item.Name, &item.Description,
		&item.Quantity, &item.Price, &item.MinStockLevel, &item.ReorderPoint,
		&item.Barcode, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}
