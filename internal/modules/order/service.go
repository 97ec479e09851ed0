package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/logger"
	"github.com/stockroomhq/stockroom-backend/internal/modules/alert"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/modules/notification"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
	"github.com/stockroomhq/stockroom-backend/internal/modules/user"
)

// ItemStore is the read side of the item store the lifecycle needs.
// Quantity writes happen only inside Repository.Complete, through the item
// store's own adjuster.
type ItemStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error)
}

// Sweeper recomputes stock alerts for an item after its quantity changed.
type Sweeper interface {
	SweepItem(ctx context.Context, itemID uuid.UUID) ([]*alert.StockAlert, error)
}

// UserSource resolves the completing actor's email for notifications.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service orchestrates the order lifecycle for one kind. The state machine
// is PENDING -> COMPLETED | CANCELLED, both terminal; deletion is only
// valid from PENDING.
type Service interface {
	Create(ctx context.Context, actor permission.Actor, req CreateOrderRequest) (*Order, error)
	Complete(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Order, error)
	Cancel(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Order, error)
	Delete(ctx context.Context, actor permission.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Order, error)
	List(ctx context.Context, actor permission.Actor, status Status) ([]*Order, error)
}

type service struct {
	kind     Kind
	repo     Repository
	items    ItemStore
	sweeper  Sweeper
	users    UserSource
	recorder audit.Recorder
	notifier notification.Notifier
	log      *logger.Logger
}

// NewService creates the lifecycle service for one order kind.
func NewService(kind Kind, repo Repository, items ItemStore, sweeper Sweeper, users UserSource, recorder audit.Recorder, notifier notification.Notifier, log *logger.Logger) Service {
	return &service{
		kind:     kind,
		repo:     repo,
		items:    items,
		sweeper:  sweeper,
		users:    users,
		recorder: recorder,
		notifier: notifier,
		log:      log,
	}
}

func (s *service) Create(ctx context.Context, actor permission.Actor, req CreateOrderRequest) (*Order, error) {
	if err := permission.Require(actor, s.kind.CreatePermission()); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, apperr.Validationf("quantity must be positive")
	}
	if req.UnitPrice.IsNegative() {
		return nil, apperr.Validationf("unit price cannot be negative")
	}

	exists, err := s.repo.CounterpartyExists(ctx, req.CounterpartyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("counterparty %s not found", req.CounterpartyID)
	}

	item, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	// Advisory for sales orders: stock may still change before completion,
	// which re-checks under a lock.
	if s.kind == KindSales && item.Quantity < req.Quantity {
		return nil, apperr.InsufficientStock(item.ID, item.Quantity, req.Quantity)
	}

	o := &Order{
		ID:             uuid.New(),
		OrderNumber:    generateOrderNumber(s.kind),
		CounterpartyID: req.CounterpartyID,
		ItemID:         req.ItemID,
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
		TotalPrice:     req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:         StatusPending,
		Notes:          req.Notes,
		CreatedBy:      actor.ID,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.record(ctx, actor, audit.ActionCreate, o.ID, map[string]interface{}{
		"order_number": o.OrderNumber,
		"item_id":      o.ItemID,
		"quantity":     o.Quantity,
		"unit_price":   o.UnitPrice,
		"total_price":  o.TotalPrice,
	})
	return o, nil
}

func (s *service) Complete(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Order, error) {
	if err := permission.Require(actor, s.kind.CreatePermission()); err != nil {
		return nil, err
	}
	res, err := s.repo.Complete(ctx, id)
	if err != nil {
		return nil, err
	}

	// Everything past the commit is best-effort: a failed sweep, audit
	// write, or notification never unwinds the completed order.
	if _, err := s.sweeper.SweepItem(ctx, res.Order.ItemID); err != nil {
		s.log.Warn("alert sweep after completion failed",
			"order_id", id, "item_id", res.Order.ItemID, "error", err)
	}

	s.record(ctx, actor, audit.ActionComplete, id, map[string]interface{}{
		"order_number": res.Order.OrderNumber,
		"item_id":      res.Order.ItemID,
		"quantity":     res.Order.Quantity,
		"old_quantity": res.OldQuantity,
		"new_quantity": res.NewQuantity,
	})

	s.notify(ctx, actor, res.Order.OrderNumber)
	return res.Order, nil
}

func (s *service) Cancel(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Order, error) {
	if err := permission.Require(actor, s.kind.CreatePermission()); err != nil {
		return nil, err
	}
	o, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, audit.ActionCancel, id, map[string]interface{}{
		"order_number": o.OrderNumber,
	})
	return o, nil
}

func (s *service) Delete(ctx context.Context, actor permission.Actor, id uuid.UUID) error {
	if err := permission.Require(actor, s.kind.CreatePermission()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, audit.ActionDelete, id, nil)
	return nil
}

func (s *service) Get(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Order, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, actor permission.Actor, status Status) ([]*Order, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	switch status {
	case "", StatusPending, StatusCompleted, StatusCancelled:
	default:
		return nil, apperr.Validationf("unknown status %q", status)
	}
	return s.repo.List(ctx, status)
}

func (s *service) record(ctx context.Context, actor permission.Actor, action string, id uuid.UUID, details map[string]interface{}) {
	err := s.recorder.Record(ctx, audit.Entry{
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		Action:       action,
		ResourceType: s.kind.ResourceType(),
		ResourceID:   &id,
		Details:      details,
	})
	if err != nil {
		s.log.Warn("audit write failed", "action", action, "order_id", id, "error", err)
	}
}

func (s *service) notify(ctx context.Context, actor permission.Actor, orderNumber string) {
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil || u.Email == "" {
		return
	}
	if err := s.notifier.OrderCompleted(ctx, u.Email, string(s.kind), orderNumber); err != nil {
		s.log.Warn("completion notification failed",
			"order_number", orderNumber, "recipient", u.Email, "error", err)
	}
}
