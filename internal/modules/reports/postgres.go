package reports

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM items),
			(SELECT COALESCE(SUM(quantity * price), 0) FROM items),
			(SELECT COUNT(*) FROM items WHERE quantity = 0),
			(SELECT COUNT(*) FROM items WHERE quantity > 0 AND quantity <= min_stock_level),
			(SELECT COUNT(*) FROM purchase_orders WHERE status = 'PENDING'),
			(SELECT COUNT(*) FROM sales_orders WHERE status = 'PENDING'),
			(SELECT COALESCE(SUM(total_price), 0) FROM sales_orders WHERE status = 'COMPLETED'),
			(SELECT COALESCE(SUM(total_price), 0) FROM purchase_orders WHERE status = 'COMPLETED')`).
		Scan(&d.ItemCount, &d.InventoryValue, &d.OutOfStockCount, &d.LowStockCount,
			&d.PendingPurchases, &d.PendingSales, &d.CompletedSalesTotal, &d.CompletedPurchasesTotal)
	if err != nil {
		return nil, fmt.Errorf("dashboard query: %w", err)
	}
	return d, nil
}
