package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		min      int
		reorder  int
		want     Type
		wantOK   bool
	}{
		{"zero quantity is out of stock", 0, 10, 20, TypeOutOfStock, true},
		{"below min is low stock", 5, 10, 20, TypeLowStock, true},
		{"at min is low stock", 10, 10, 20, TypeLowStock, true},
		{"between min and reorder", 15, 10, 20, TypeReorder, true},
		{"at reorder point", 20, 10, 20, TypeReorder, true},
		{"above reorder is healthy", 21, 10, 20, "", false},
		{"zero beats low stock", 0, 10, 20, TypeOutOfStock, true},
		{"no thresholds set", 1, 0, 0, "", false},
		{"zero with no thresholds still alerts", 0, 0, 0, TypeOutOfStock, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Classify(tc.quantity, tc.min, tc.reorder)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	assert.Less(t, TypeOutOfStock.Severity(), TypeLowStock.Severity())
	assert.Less(t, TypeLowStock.Severity(), TypeReorder.Severity())
}

func TestMessage(t *testing.T) {
	assert.Equal(t,
		"Item 'Widget' (SKU: W-1) is OUT OF STOCK",
		Message(TypeOutOfStock, "Widget", "W-1", 0, 10, 20))
	assert.Equal(t,
		"Item 'Widget' (SKU: W-1) is LOW on stock. Current: 5, Min: 10",
		Message(TypeLowStock, "Widget", "W-1", 5, 10, 20))
	assert.Equal(t,
		"Item 'Widget' (SKU: W-1) has reached reorder point. Current: 15, Reorder at: 20",
		Message(TypeReorder, "Widget", "W-1", 15, 10, 20))
}
