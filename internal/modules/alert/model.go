package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type classifies the severity of a stock alert, most severe first.
type Type string

const (
	TypeOutOfStock Type = "OUT_OF_STOCK"
	TypeLowStock   Type = "LOW_STOCK"
	TypeReorder    Type = "REORDER"
)

// severity orders types for display; lower sorts first.
var severity = map[Type]int{
	TypeOutOfStock: 1,
	TypeLowStock:   2,
	TypeReorder:    3,
}

// Severity returns the display rank of t (1 is most severe).
func (t Type) Severity() int { return severity[t] }

// Classify derives the single applicable alert type from an item's quantity
// and thresholds. At most one classification applies at a time; ok is false
// when stock is healthy.
func Classify(quantity, minStockLevel, reorderPoint int) (t Type, ok bool) {
	switch {
	case quantity == 0:
		return TypeOutOfStock, true
	case quantity <= minStockLevel:
		return TypeLowStock, true
	case quantity <= reorderPoint:
		return TypeReorder, true
	default:
		return "", false
	}
}

// Message renders the user-facing alert text for an item.
func Message(t Type, name, sku string, quantity, minStockLevel, reorderPoint int) string {
	switch t {
	case TypeOutOfStock:
		return fmt.Sprintf("Item '%s' (SKU: %s) is OUT OF STOCK", name, sku)
	case TypeLowStock:
		return fmt.Sprintf("Item '%s' (SKU: %s) is LOW on stock. Current: %d, Min: %d", name, sku, quantity, minStockLevel)
	case TypeReorder:
		return fmt.Sprintf("Item '%s' (SKU: %s) has reached reorder point. Current: %d, Reorder at: %d", name, sku, quantity, reorderPoint)
	default:
		return ""
	}
}

// StockAlert records a threshold crossing for an item. QuantityAtAlert is a
// snapshot from creation time and never updated afterwards.
type StockAlert struct {
	ID              uuid.UUID  `json:"id"`
	ItemID          uuid.UUID  `json:"item_id"`
	Type            Type       `json:"alert_type"`
	Message         string     `json:"message"`
	QuantityAtAlert int        `json:"quantity_at_alert"`
	IsResolved      bool       `json:"is_resolved"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`

	// Display fields joined from the items table.
	ItemName        string `json:"item_name,omitempty"`
	SKU             string `json:"sku,omitempty"`
	CurrentQuantity int    `json:"current_quantity,omitempty"`
}

// Summary counts unresolved alerts by type.
type Summary struct {
	OutOfStock int `json:"OUT_OF_STOCK"`
	LowStock   int `json:"LOW_STOCK"`
	Reorder    int `json:"REORDER"`
	Total      int `json:"TOTAL"`
}
