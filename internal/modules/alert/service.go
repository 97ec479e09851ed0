package alert

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/logger"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/modules/notification"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
	"github.com/stockroomhq/stockroom-backend/internal/modules/user"
)

// ItemSource is the slice of the item store the sweep reads. A sweep
// tolerates slightly stale quantities; alerts are advisory.
type ItemSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error)
	List(ctx context.Context) ([]*inventory.Item, error)
	LowStock(ctx context.Context) ([]*inventory.Item, error)
}

// UserSource lists accounts for the low-stock email digest.
type UserSource interface {
	List(ctx context.Context) ([]*user.User, error)
}

// Service defines the stock alert engine.
type Service interface {
	// Sweep reclassifies every item, creating missing unresolved alerts
	// and resolving ones whose classification no longer applies. Returns
	// the newly created alerts.
	Sweep(ctx context.Context, actor permission.Actor) ([]*StockAlert, error)

	// SweepItem is Sweep for a single item. It is invoked internally after
	// every order completion and is not permission-gated.
	SweepItem(ctx context.Context, itemID uuid.UUID) ([]*StockAlert, error)

	Resolve(ctx context.Context, actor permission.Actor, id uuid.UUID) error
	ResolveAllForItem(ctx context.Context, actor permission.Actor, itemID uuid.UUID) (int64, error)
	ListActive(ctx context.Context, actor permission.Actor) ([]*StockAlert, error)
	Summary(ctx context.Context, actor permission.Actor) (*Summary, error)

	// SendLowStockDigest emails the current low-stock list to every admin
	// with an email address. Returns the number of recipients notified.
	SendLowStockDigest(ctx context.Context, actor permission.Actor) (int, error)
}

type service struct {
	repo     Repository
	items    ItemSource
	users    UserSource
	notifier notification.Notifier
	recorder audit.Recorder
	log      *logger.Logger
}

// NewService creates a new stock alert service.
func NewService(repo Repository, items ItemSource, users UserSource, notifier notification.Notifier, recorder audit.Recorder, log *logger.Logger) Service {
	return &service{repo: repo, items: items, users: users, notifier: notifier, recorder: recorder, log: log}
}

func (s *service) Sweep(ctx context.Context, actor permission.Actor) ([]*StockAlert, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}
	var created []*StockAlert
	for _, item := range items {
		a, err := s.sweepOne(ctx, item)
		if err != nil {
			return created, err
		}
		if a != nil {
			created = append(created, a)
		}
	}
	return created, nil
}

func (s *service) SweepItem(ctx context.Context, itemID uuid.UUID) ([]*StockAlert, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	a, err := s.sweepOne(ctx, item)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	return []*StockAlert{a}, nil
}

// sweepOne applies the classification to one item: stale unresolved alerts
// are resolved, the applicable alert is created unless one already exists.
// An existing alert keeps its original quantity snapshot.
func (s *service) sweepOne(ctx context.Context, item *inventory.Item) (*StockAlert, error) {
	t, ok := Classify(item.Quantity, item.MinStockLevel, item.ReorderPoint)
	keep := t
	if !ok {
		keep = ""
	}
	if _, err := s.repo.ResolveOthers(ctx, item.ID, keep); err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	a := &StockAlert{
		ID:              uuid.New(),
		ItemID:          item.ID,
		Type:            t,
		Message:         Message(t, item.Name, item.SKU, item.Quantity, item.MinStockLevel, item.ReorderPoint),
		QuantityAtAlert: item.Quantity,
		ItemName:        item.Name,
		SKU:             item.SKU,
		CurrentQuantity: item.Quantity,
	}
	created, err := s.repo.CreateIfAbsent(ctx, a)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	return a, nil
}

func (s *service) Resolve(ctx context.Context, actor permission.Actor, id uuid.UUID) error {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return err
	}
	if err := s.repo.Resolve(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, id, nil)
	return nil
}

func (s *service) ResolveAllForItem(ctx context.Context, actor permission.Actor, itemID uuid.UUID) (int64, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return 0, err
	}
	count, err := s.repo.ResolveAllForItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	s.record(ctx, actor, itemID, map[string]interface{}{"resolved": count})
	return count, nil
}

func (s *service) ListActive(ctx context.Context, actor permission.Actor) ([]*StockAlert, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	return s.repo.ListActive(ctx)
}

func (s *service) Summary(ctx context.Context, actor permission.Actor) (*Summary, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx)
}

func (s *service) SendLowStockDigest(ctx context.Context, actor permission.Actor) (int, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return 0, err
	}
	low, err := s.items.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	if len(low) == 0 {
		return 0, nil
	}
	lines := make([]notification.LowStockItem, 0, len(low))
	for _, item := range low {
		lines = append(lines, notification.LowStockItem{
			Name:          item.Name,
			SKU:           item.SKU,
			Quantity:      item.Quantity,
			MinStockLevel: item.MinStockLevel,
		})
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, u := range users {
		if u.Role != permission.RoleAdmin || u.Email == "" {
			continue
		}
		if err := s.notifier.LowStockDigest(ctx, u.Email, lines); err != nil {
			s.log.Warn("low stock digest failed", "recipient", u.Email, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *service) record(ctx context.Context, actor permission.Actor, id uuid.UUID, details map[string]interface{}) {
	err := s.recorder.Record(ctx, audit.Entry{
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		Action:       audit.ActionResolve,
		ResourceType: audit.ResourceStockAlert,
		ResourceID:   &id,
		Details:      details,
	})
	if err != nil {
		s.log.Warn("audit write failed", "alert_id", id, "error", err)
	}
}
