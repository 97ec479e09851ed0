package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/logger"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// fakeItemRepo mirrors the SQL repository's semantics: AdjustQuantity is a
// single conditional mutation under one lock, Update never writes quantity.
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[uuid.UUID]*Item{}}
}

func (f *fakeItemRepo) Create(_ context.Context, item *Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.SKU == item.SKU {
			return apperr.Conflictf("item with sku %s already exists", item.SKU)
		}
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("item", id)
	}
	cp := *item
	return &cp, nil
}

func (f *fakeItemRepo) GetBySKU(_ context.Context, sku string) (*Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.SKU == sku {
			cp := *item
			return &cp, nil
		}
	}
	return nil, apperr.NotFoundf("item with sku %s not found", sku)
}

func (f *fakeItemRepo) List(_ context.Context) ([]*Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Item
	for _, item := range f.items {
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeItemRepo) Search(_ context.Context, q string) ([]*Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q = strings.ToLower(q)
	var out []*Item
	for _, item := range f.items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.SKU), q) {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Update(_ context.Context, item *Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.items[item.ID]
	if !ok {
		return apperr.NotFound("item", item.ID)
	}
	cp := *item
	cp.Quantity = existing.Quantity
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("item", id)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) (*Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("item", id)
	}
	if item.Quantity+delta < 0 {
		return nil, apperr.NegativeQuantity(id)
	}
	item.Quantity += delta
	cp := *item
	return &cp, nil
}

func (f *fakeItemRepo) LowStock(_ context.Context) ([]*Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Item
	for _, item := range f.items {
		if item.Quantity <= item.MinStockLevel {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, audit.Entry) error { return nil }

func newItemService(repo Repository) Service {
	return NewService(repo, nopRecorder{}, logger.New("test"))
}

var staff = permission.Actor{ID: uuid.New(), Username: "bo", Role: permission.RoleStaff}

func TestCreateItem(t *testing.T) {
	repo := newFakeItemRepo()
	svc := newItemService(repo)

	item, err := svc.Create(context.Background(), staff, CreateItemRequest{
		SKU:           "  W-1 ",
		Name:          "Widget",
		Quantity:      10,
		Price:         decimal.RequireFromString("4.99"),
		MinStockLevel: 5,
		ReorderPoint:  8,
	})
	require.NoError(t, err)
	assert.Equal(t, "W-1", item.SKU)
	assert.Equal(t, "Widget", item.Name)
	assert.Nil(t, item.Barcode)
}

func TestCreateItemValidation(t *testing.T) {
	svc := newItemService(newFakeItemRepo())
	ctx := context.Background()

	cases := []CreateItemRequest{
		{SKU: "", Name: "Widget"},
		{SKU: "W-1", Name: "   "},
		{SKU: "W-1", Name: "Widget", Quantity: -1},
		{SKU: "W-1", Name: "Widget", Price: decimal.NewFromInt(-1)},
		{SKU: "W-1", Name: "Widget", MinStockLevel: -1},
	}
	for _, req := range cases {
		_, err := svc.Create(ctx, staff, req)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "%+v", req)
	}
}

func TestCreateDuplicateSKU(t *testing.T) {
	svc := newItemService(newFakeItemRepo())
	ctx := context.Background()

	req := CreateItemRequest{SKU: "W-1", Name: "Widget"}
	_, err := svc.Create(ctx, staff, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, staff, req)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateNeverTouchesQuantity(t *testing.T) {
	repo := newFakeItemRepo()
	svc := newItemService(repo)
	ctx := context.Background()

	item, err := svc.Create(ctx, staff, CreateItemRequest{SKU: "W-1", Name: "Widget", Quantity: 42})
	require.NoError(t, err)

	name := "Widget Mk2"
	price := decimal.RequireFromString("9.99")
	updated, err := svc.Update(ctx, staff, item.ID, UpdateItemRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Widget Mk2", updated.Name)

	got, err := svc.Get(ctx, staff, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Quantity)
}

func TestUpdateClearsBarcode(t *testing.T) {
	repo := newFakeItemRepo()
	svc := newItemService(repo)
	ctx := context.Background()

	item, err := svc.Create(ctx, staff, CreateItemRequest{SKU: "W-1", Name: "Widget", Barcode: "123456"})
	require.NoError(t, err)
	require.NotNil(t, item.Barcode)

	empty := ""
	updated, err := svc.Update(ctx, staff, item.ID, UpdateItemRequest{Barcode: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Barcode)
}

func TestAdjustQuantityRejectsUnderflow(t *testing.T) {
	repo := newFakeItemRepo()
	ctx := context.Background()
	id := uuid.New()
	repo.items[id] = &Item{ID: id, SKU: "W-1", Name: "Widget", Quantity: 3}

	_, err := repo.AdjustQuantity(ctx, id, -5)
	assert.Equal(t, apperr.KindNegativeQuantity, apperr.KindOf(err))

	item, err := repo.AdjustQuantity(ctx, id, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
}

func TestAdjustQuantityConcurrent(t *testing.T) {
	repo := newFakeItemRepo()
	ctx := context.Background()
	id := uuid.New()
	repo.items[id] = &Item{ID: id, SKU: "W-1", Name: "Widget", Quantity: 1000}

	// 50 decrements of 10 racing 25 increments of 4: no lost updates.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustQuantity(ctx, id, -10)
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustQuantity(ctx, id, 4)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	item, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 600, item.Quantity)
}

func TestViewerCannotMutate(t *testing.T) {
	svc := newItemService(newFakeItemRepo())
	ctx := context.Background()
	viewer := permission.Actor{ID: uuid.New(), Username: "vi", Role: permission.RoleViewer}

	_, err := svc.Create(ctx, viewer, CreateItemRequest{SKU: "W-1", Name: "Widget"})
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	err = svc.Delete(ctx, viewer, uuid.New())
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	_, err = svc.List(ctx, viewer)
	assert.NoError(t, err)
}

func TestSearchFallsBackToList(t *testing.T) {
	repo := newFakeItemRepo()
	svc := newItemService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, staff, CreateItemRequest{SKU: "W-1", Name: "Widget"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, staff, CreateItemRequest{SKU: "G-1", Name: "Gadget"})
	require.NoError(t, err)

	all, err := svc.Search(ctx, staff, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := svc.Search(ctx, staff, "wid")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Widget", hits[0].Name)
}
