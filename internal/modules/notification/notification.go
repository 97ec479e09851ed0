// Package notification delivers best-effort emails. Every caller treats a
// delivery failure as log-and-continue; nothing in the order lifecycle or
// the alert engine depends on a notification landing.
package notification

import "context"

// LowStockItem is one line of the low-stock digest.
type LowStockItem struct {
	Name          string
	SKU           string
	Quantity      int
	MinStockLevel int
}

// Notifier sends operational emails.
type Notifier interface {
	OrderCompleted(ctx context.Context, recipient, kind, orderNumber string) error
	LowStockDigest(ctx context.Context, recipient string, items []LowStockItem) error
}

// Nop is the notifier used when SMTP is not configured.
type Nop struct{}

func (Nop) OrderCompleted(context.Context, string, string, string) error { return nil }

func (Nop) LowStockDigest(context.Context, string, []LowStockItem) error { return nil }
