package reports

import "github.com/shopspring/decimal"

// Dashboard is the at-a-glance view of inventory and order health.
type Dashboard struct {
	ItemCount               int             `json:"item_count"`
	InventoryValue          decimal.Decimal `json:"inventory_value"`
	OutOfStockCount         int             `json:"out_of_stock_count"`
	LowStockCount           int             `json:"low_stock_count"`
	PendingPurchases        int             `json:"pending_purchases"`
	PendingSales            int             `json:"pending_sales"`
	CompletedSalesTotal     decimal.Decimal `json:"completed_sales_total"`
	CompletedPurchasesTotal decimal.Decimal `json:"completed_purchase_total"`
}
