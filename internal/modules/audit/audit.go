// Package audit is the append-only trail of user actions. Writes are
// best-effort from the caller's point of view: a failed append is logged by
// the emitting service and never fails the business operation.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actions.
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionComplete = "COMPLETE"
	ActionCancel   = "CANCEL"
	ActionAdjust   = "ADJUST"
	ActionResolve  = "RESOLVE"
	ActionLogin    = "LOGIN"
)

// Resource types.
const (
	ResourceItem          = "ITEM"
	ResourceSupplier      = "SUPPLIER"
	ResourceCustomer      = "CUSTOMER"
	ResourcePurchaseOrder = "PURCHASE_ORDER"
	ResourceSalesOrder    = "SALES_ORDER"
	ResourceStockAlert    = "STOCK_ALERT"
	ResourceUser          = "USER"
)

// Entry is one audit event.
type Entry struct {
	ID           int64                  `json:"id,omitempty"`
	ActorID      uuid.UUID              `json:"actor_id"`
	ActorName    string                 `json:"actor_name"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   *uuid.UUID             `json:"resource_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Recorder appends audit entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Repository adds the read side used by the admin audit viewer.
type Repository interface {
	Recorder
	List(ctx context.Context, limit, offset int) ([]*Entry, error)
}
