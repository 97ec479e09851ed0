package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/logger"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Service defines item management business logic. Quantity never changes
// through Update; order completion goes through the repository's atomic
// adjustment instead.
type Service interface {
	Create(ctx context.Context, actor permission.Actor, req CreateItemRequest) (*Item, error)
	Get(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Item, error)
	List(ctx context.Context, actor permission.Actor) ([]*Item, error)
	Search(ctx context.Context, actor permission.Actor, q string) ([]*Item, error)
	Update(ctx context.Context, actor permission.Actor, id uuid.UUID, req UpdateItemRequest) (*Item, error)
	Delete(ctx context.Context, actor permission.Actor, id uuid.UUID) error
	LowStock(ctx context.Context, actor permission.Actor) ([]*Item, error)
}

type service struct {
	repo     Repository
	recorder audit.Recorder
	log      *logger.Logger
}

// NewService creates a new inventory service.
func NewService(repo Repository, recorder audit.Recorder, log *logger.Logger) Service {
	return &service{repo: repo, recorder: recorder, log: log}
}

func (s *service) Create(ctx context.Context, actor permission.Actor, req CreateItemRequest) (*Item, error) {
	if err := permission.Require(actor, permission.CreateItem); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SKU) == "" {
		return nil, apperr.Validationf("sku is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validationf("name is required")
	}
	if req.Quantity < 0 {
		return nil, apperr.Validationf("quantity cannot be negative")
	}
	if req.Price.IsNegative() {
		return nil, apperr.Validationf("price cannot be negative")
	}
	if req.MinStockLevel < 0 || req.ReorderPoint < 0 {
		return nil, apperr.Validationf("stock thresholds cannot be negative")
	}

	item := &Item{
		ID:            uuid.New(),
		SKU:           strings.TrimSpace(req.SKU),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Quantity:      req.Quantity,
		Price:         req.Price,
		MinStockLevel: req.MinStockLevel,
		ReorderPoint:  req.ReorderPoint,
	}
	if b := strings.TrimSpace(req.Barcode); b != "" {
		item.Barcode = &b
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.record(ctx, actor, audit.ActionCreate, item.ID, map[string]interface{}{
		"sku": item.SKU, "name": item.Name, "quantity": item.Quantity,
	})
	return item, nil
}

func (s *service) Get(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Item, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, actor permission.Actor) ([]*Item, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *service) Search(ctx context.Context, actor permission.Actor, q string) ([]*Item, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, q)
}

func (s *service) Update(ctx context.Context, actor permission.Actor, id uuid.UUID, req UpdateItemRequest) (*Item, error) {
	if err := permission.Require(actor, permission.EditItem); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Validationf("price cannot be negative")
		}
		item.Price = *req.Price
	}
	if req.MinStockLevel != nil {
		if *req.MinStockLevel < 0 {
			return nil, apperr.Validationf("min_stock_level cannot be negative")
		}
		item.MinStockLevel = *req.MinStockLevel
	}
	if req.ReorderPoint != nil {
		if *req.ReorderPoint < 0 {
			return nil, apperr.Validationf("reorder_point cannot be negative")
		}
		item.ReorderPoint = *req.ReorderPoint
	}
	if req.Barcode != nil {
		if b := strings.TrimSpace(*req.Barcode); b != "" {
			item.Barcode = &b
		} else {
			item.Barcode = nil
		}
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.record(ctx, actor, audit.ActionUpdate, item.ID, map[string]interface{}{"sku": item.SKU})
	return item, nil
}

func (s *service) Delete(ctx context.Context, actor permission.Actor, id uuid.UUID) error {
	if err := permission.Require(actor, permission.DeleteItem); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, audit.ActionDelete, id, nil)
	return nil
}

func (s *service) LowStock(ctx context.Context, actor permission.Actor) ([]*Item, error) {
	if err := permission.Require(actor, permission.ViewInventory); err != nil {
		return nil, err
	}
	return s.repo.LowStock(ctx)
}

func (s *service) record(ctx context.Context, actor permission.Actor, action string, itemID uuid.UUID, details map[string]interface{}) {
	err := s.recorder.Record(ctx, audit.Entry{
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		Action:       action,
		ResourceType: audit.ResourceItem,
		ResourceID:   &itemID,
		Details:      details,
	})
	if err != nil {
		s.log.Warn("audit write failed", "action", action, "item_id", itemID, "error", err)
	}
}
