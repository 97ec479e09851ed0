package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a stocked product. Quantity is the single source of truth for
// stock and is only ever written through AdjustQuantity.
type Item struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel int             `json:"min_stock_level"`
	ReorderPoint  int             `json:"reorder_point"`
	Barcode       *string         `json:"barcode,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateItemRequest holds data for adding an item.
type CreateItemRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel int             `json:"min_stock_level"`
	ReorderPoint  int             `json:"reorder_point"`
	Barcode       string          `json:"barcode"`
}

// UpdateItemRequest holds the editable fields. SKU is immutable after
// creation and deliberately absent.
type UpdateItemRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	MinStockLevel *int             `json:"min_stock_level"`
	ReorderPoint  *int             `json:"reorder_point"`
	Barcode       *string          `json:"barcode"`
}
