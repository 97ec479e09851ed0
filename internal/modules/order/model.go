package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Kind distinguishes purchase orders (stock in) from sales orders (stock
// out). The two lifecycles are identical; only the counterparty and the
// direction of the quantity delta differ.
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindSales    Kind = "sales"
)

// Prefix is the order-number prefix for the kind.
func (k Kind) Prefix() string {
	if k == KindPurchase {
		return "PO"
	}
	return "SO"
}

// CreatePermission is the gate action for creating (and, as in the original
// workflow, completing, cancelling, and deleting) orders of this kind.
func (k Kind) CreatePermission() string {
	if k == KindPurchase {
		return permission.CreatePurchase
	}
	return permission.CreateSale
}

// ResourceType is the audit resource type for the kind.
func (k Kind) ResourceType() string {
	if k == KindPurchase {
		return audit.ResourcePurchaseOrder
	}
	return audit.ResourceSalesOrder
}

// Delta is the signed quantity adjustment applied to the item when an order
// of this kind completes: purchases add stock, sales subtract it.
func (k Kind) Delta(quantity int) int {
	if k == KindPurchase {
		return quantity
	}
	return -quantity
}

// Status is the lifecycle state of an order. COMPLETED and CANCELLED are
// terminal; PENDING is the only state that permits transitions or deletion.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Order is a purchase or sales order for a single item. Quantity,
// UnitPrice, and TotalPrice are fixed at creation.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	OrderNumber    string          `json:"order_number"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Status         Status          `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      uuid.UUID       `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`

	// Display fields joined from related tables on reads.
	CounterpartyName string `json:"counterparty_name,omitempty"`
	ItemName         string `json:"item_name,omitempty"`
	ItemSKU          string `json:"item_sku,omitempty"`
	CreatedByName    string `json:"created_by_name,omitempty"`
}

// CreateOrderRequest holds data for creating an order.
type CreateOrderRequest struct {
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Notes          string          `json:"notes"`
}

// generateOrderNumber creates an order number like PO-20260901143050-7F3A.
// The timestamp matches the original numbering scheme; the uuid suffix
// keeps numbers unique when two orders are created in the same second.
func generateOrderNumber(kind Kind) string {
	ts := time.Now().UTC().Format("20060102150405")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("%s-%s-%s", kind.Prefix(), ts, suffix)
}
