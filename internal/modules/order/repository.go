package order

import (
	"context"

	"github.com/google/uuid"
)

// CompletionResult reports the outcome of an atomic completion: the
// completed order plus the item quantity before and after the adjustment.
type CompletionResult struct {
	Order       *Order
	OldQuantity int
	NewQuantity int
}

// Repository defines data access for one order kind.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// List returns orders newest first, optionally filtered by status
	// (empty status means all).
	List(ctx context.Context, status Status) ([]*Order, error)

	// Complete atomically flips a PENDING order to COMPLETED and applies
	// the quantity delta through the item store, in one transaction. The
	// status flip is a conditional update gated on affected rows, so two
	// concurrent completions of the same order cannot both succeed. Sales
	// completions re-check available stock under a row lock and fail with
	// InsufficientStockError without committing anything.
	Complete(ctx context.Context, id uuid.UUID) (*CompletionResult, error)

	// Cancel flips a PENDING order to CANCELLED with no inventory effect.
	Cancel(ctx context.Context, id uuid.UUID) (*Order, error)

	// Delete removes a PENDING order outright.
	Delete(ctx context.Context, id uuid.UUID) error

	// CounterpartyExists checks the supplier (purchase) or customer
	// (sales) table for the given id.
	CounterpartyExists(ctx context.Context, id uuid.UUID) (bool, error)
}
