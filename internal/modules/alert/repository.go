package alert

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines stock alert data storage.
type Repository interface {
	// CreateIfAbsent inserts the alert unless an unresolved alert of the
	// same (item, type) already exists; created reports whether a row was
	// written. The existing alert's snapshot is left untouched either way.
	CreateIfAbsent(ctx context.Context, a *StockAlert) (created bool, err error)

	// ResolveOthers resolves unresolved alerts for the item whose type is
	// not the one still applicable ("" resolves all of them). Returns the
	// number resolved.
	ResolveOthers(ctx context.Context, itemID uuid.UUID, keep Type) (int64, error)

	Resolve(ctx context.Context, id uuid.UUID) error
	ResolveAllForItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	ListActive(ctx context.Context) ([]*StockAlert, error)
	Summary(ctx context.Context) (*Summary, error)
}
