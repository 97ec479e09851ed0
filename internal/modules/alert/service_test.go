package alert

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/logger"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/modules/notification"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
	"github.com/stockroomhq/stockroom-backend/internal/modules/user"
)

type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts []*StockAlert
}

func (f *fakeAlertRepo) CreateIfAbsent(_ context.Context, a *StockAlert) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.alerts {
		if !existing.IsResolved && existing.ItemID == a.ItemID && existing.Type == a.Type {
			return false, nil
		}
	}
	cp := *a
	f.alerts = append(f.alerts, &cp)
	return true, nil
}

func (f *fakeAlertRepo) ResolveOthers(_ context.Context, itemID uuid.UUID, keep Type) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.alerts {
		if !a.IsResolved && a.ItemID == itemID && a.Type != keep {
			a.IsResolved = true
			n++
		}
	}
	return n, nil
}

func (f *fakeAlertRepo) Resolve(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.alerts {
		if a.ID == id && !a.IsResolved {
			a.IsResolved = true
			return nil
		}
	}
	return apperr.NotFound("stock alert", id)
}

func (f *fakeAlertRepo) ResolveAllForItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	return f.ResolveOthers(context.Background(), itemID, "")
}

func (f *fakeAlertRepo) ListActive(_ context.Context) ([]*StockAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*StockAlert
	for _, a := range f.alerts {
		if !a.IsResolved {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) Summary(_ context.Context) (*Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &Summary{}
	for _, a := range f.alerts {
		if a.IsResolved {
			continue
		}
		switch a.Type {
		case TypeOutOfStock:
			s.OutOfStock++
		case TypeLowStock:
			s.LowStock++
		case TypeReorder:
			s.Reorder++
		}
		s.Total++
	}
	return s, nil
}

type fakeItemSource struct {
	mu    sync.Mutex
	items map[uuid.UUID]*inventory.Item
}

func (f *fakeItemSource) GetByID(_ context.Context, id uuid.UUID) (*inventory.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("item", id)
	}
	cp := *item
	return &cp, nil
}

func (f *fakeItemSource) List(_ context.Context) ([]*inventory.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.Item
	for _, item := range f.items {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeItemSource) LowStock(_ context.Context) ([]*inventory.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.Item
	for _, item := range f.items {
		if _, ok := Classify(item.Quantity, item.MinStockLevel, item.ReorderPoint); ok {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeItemSource) setQuantity(id uuid.UUID, quantity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[id].Quantity = quantity
}

type fakeUserSource struct{ users []*user.User }

func (f *fakeUserSource) List(_ context.Context) ([]*user.User, error) { return f.users, nil }

type fakeNotifier struct {
	mu         sync.Mutex
	digests    []string
	failDigest bool
}

func (f *fakeNotifier) OrderCompleted(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeNotifier) LowStockDigest(_ context.Context, recipient string, _ []notification.LowStockItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDigest {
		return errors.New("smtp unavailable")
	}
	f.digests = append(f.digests, recipient)
	return nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (f *fakeRecorder) Record(_ context.Context, e audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}

type alertHarness struct {
	svc      Service
	repo     *fakeAlertRepo
	items    *fakeItemSource
	users    *fakeUserSource
	notifier *fakeNotifier
	actor    permission.Actor
}

func newAlertHarness() *alertHarness {
	repo := &fakeAlertRepo{}
	items := &fakeItemSource{items: map[uuid.UUID]*inventory.Item{}}
	users := &fakeUserSource{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, items, users, notifier, &fakeRecorder{}, logger.New("test"))
	return &alertHarness{
		svc:      svc,
		repo:     repo,
		items:    items,
		users:    users,
		notifier: notifier,
		actor:    permission.Actor{ID: uuid.New(), Username: "ana", Role: permission.RoleAdmin},
	}
}

func (h *alertHarness) addItem(name, sku string, quantity, min, reorder int) uuid.UUID {
	id := uuid.New()
	h.items.items[id] = &inventory.Item{
		ID: id, Name: name, SKU: sku,
		Quantity: quantity, MinStockLevel: min, ReorderPoint: reorder,
	}
	return id
}

func TestSweepItemCreatesLowStockAlert(t *testing.T) {
	h := newAlertHarness()
	id := h.addItem("Widget", "W-1", 5, 10, 20)

	created, err := h.svc.SweepItem(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, created, 1)

	a := created[0]
	assert.Equal(t, TypeLowStock, a.Type)
	assert.Equal(t, 5, a.QuantityAtAlert)
	assert.Equal(t, "Item 'Widget' (SKU: W-1) is LOW on stock. Current: 5, Min: 10", a.Message)
}

func TestSweepItemIsIdempotent(t *testing.T) {
	h := newAlertHarness()
	id := h.addItem("Widget", "W-1", 5, 10, 20)
	ctx := context.Background()

	first, err := h.svc.SweepItem(ctx, id)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Quantity drops further within the same classification: no new alert,
	// and the original snapshot is preserved.
	h.items.setQuantity(id, 2)
	second, err := h.svc.SweepItem(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, second)

	active, err := h.svc.ListActive(ctx, h.actor)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 5, active[0].QuantityAtAlert)
}

func TestSweepItemResolvesStaleAlert(t *testing.T) {
	h := newAlertHarness()
	id := h.addItem("Widget", "W-1", 0, 10, 20)
	ctx := context.Background()

	created, err := h.svc.SweepItem(ctx, id)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, TypeOutOfStock, created[0].Type)

	// Restocked well above every threshold: the alert goes away on its own.
	h.items.setQuantity(id, 50)
	created, err = h.svc.SweepItem(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, created)

	active, err := h.svc.ListActive(ctx, h.actor)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSweepItemEscalates(t *testing.T) {
	h := newAlertHarness()
	id := h.addItem("Widget", "W-1", 5, 10, 20)
	ctx := context.Background()

	_, err := h.svc.SweepItem(ctx, id)
	require.NoError(t, err)

	h.items.setQuantity(id, 0)
	created, err := h.svc.SweepItem(ctx, id)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, TypeOutOfStock, created[0].Type)
	assert.Equal(t, 0, created[0].QuantityAtAlert)

	// The superseded LOW_STOCK alert is resolved, not duplicated.
	active, err := h.svc.ListActive(ctx, h.actor)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, TypeOutOfStock, active[0].Type)
}

func TestSweepCoversAllItems(t *testing.T) {
	h := newAlertHarness()
	h.addItem("A", "A-1", 0, 5, 10)
	h.addItem("B", "B-1", 3, 5, 10)
	h.addItem("C", "C-1", 100, 5, 10)
	ctx := context.Background()

	created, err := h.svc.Sweep(ctx, h.actor)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	summary, err := h.svc.Summary(ctx, h.actor)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OutOfStock)
	assert.Equal(t, 1, summary.LowStock)
	assert.Equal(t, 0, summary.Reorder)
	assert.Equal(t, 2, summary.Total)
}

func TestSweepRequiresPermission(t *testing.T) {
	h := newAlertHarness()
	nobody := permission.Actor{ID: uuid.New(), Username: "x", Role: "UNKNOWN"}

	_, err := h.svc.Sweep(context.Background(), nobody)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestResolveAllForItem(t *testing.T) {
	h := newAlertHarness()
	id := h.addItem("Widget", "W-1", 0, 10, 20)
	ctx := context.Background()

	_, err := h.svc.SweepItem(ctx, id)
	require.NoError(t, err)

	count, err := h.svc.ResolveAllForItem(ctx, h.actor, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	active, err := h.svc.ListActive(ctx, h.actor)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSendLowStockDigest(t *testing.T) {
	h := newAlertHarness()
	h.addItem("Widget", "W-1", 2, 10, 20)
	h.users.users = []*user.User{
		{ID: uuid.New(), Username: "admin1", Email: "a@shop.test", Role: permission.RoleAdmin},
		{ID: uuid.New(), Username: "admin2", Email: "", Role: permission.RoleAdmin},
		{ID: uuid.New(), Username: "clerk", Email: "c@shop.test", Role: permission.RoleStaff},
	}

	sent, err := h.svc.SendLowStockDigest(context.Background(), h.actor)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"a@shop.test"}, h.notifier.digests)
}

func TestSendLowStockDigestNothingLow(t *testing.T) {
	h := newAlertHarness()
	h.addItem("Widget", "W-1", 100, 10, 20)
	h.users.users = []*user.User{
		{ID: uuid.New(), Username: "admin1", Email: "a@shop.test", Role: permission.RoleAdmin},
	}

	sent, err := h.svc.SendLowStockDigest(context.Background(), h.actor)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, h.notifier.digests)
}

func TestSendLowStockDigestDeliveryFailureIsNotAnError(t *testing.T) {
	h := newAlertHarness()
	h.addItem("Widget", "W-1", 2, 10, 20)
	h.notifier.failDigest = true
	h.users.users = []*user.User{
		{ID: uuid.New(), Username: "admin1", Email: "a@shop.test", Role: permission.RoleAdmin},
	}

	sent, err := h.svc.SendLowStockDigest(context.Background(), h.actor)
	require.NoError(t, err)
	assert.Zero(t, sent)
}
