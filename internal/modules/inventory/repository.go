package inventory

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository defines item data storage.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	GetBySKU(ctx context.Context, sku string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	Search(ctx context.Context, q string) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustQuantity applies a signed delta as a single conditional update
	// so concurrent adjustments on the same item never lose writes. It
	// fails with NegativeQuantityError when the result would go below zero.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*Item, error)

	// LowStock lists items at or below their minimum stock level, lowest
	// quantity first.
	LowStock(ctx context.Context) ([]*Item, error)
}

// Adjuster is the transaction-scoped slice of the item store used by order
// completion, so the status flip and the quantity change share one commit.
// The items row stays the item store's to write; callers only supply the tx.
type Adjuster interface {
	// QuantityForUpdate reads the current quantity under a row lock.
	QuantityForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (int, error)

	// AdjustQuantityTx is AdjustQuantity inside the caller's transaction.
	AdjustQuantityTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, delta int) (*Item, error)
}
