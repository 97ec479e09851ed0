package supplier

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/logger"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Repository defines supplier data storage.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	List(ctx context.Context) ([]*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service defines supplier business logic.
type Service interface {
	Create(ctx context.Context, actor permission.Actor, req UpsertRequest) (*Supplier, error)
	Get(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Supplier, error)
	List(ctx context.Context, actor permission.Actor) ([]*Supplier, error)
	Update(ctx context.Context, actor permission.Actor, id uuid.UUID, req UpsertRequest) (*Supplier, error)
	Delete(ctx context.Context, actor permission.Actor, id uuid.UUID) error
}

type service struct {
	repo     Repository
	recorder audit.Recorder
	log      *logger.Logger
}

// NewService creates a new supplier service.
func NewService(repo Repository, recorder audit.Recorder, log *logger.Logger) Service {
	return &service{repo: repo, recorder: recorder, log: log}
}

func (s *service) Create(ctx context.Context, actor permission.Actor, req UpsertRequest) (*Supplier, error) {
	if err := permission.Require(actor, permission.ManageSuppliers); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validationf("name is required")
	}
	sup := &Supplier{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	s.record(ctx, actor, audit.ActionCreate, sup.ID, sup.Name)
	return sup, nil
}

func (s *service) Get(ctx context.Context, actor permission.Actor, id uuid.UUID) (*Supplier, error) {
	if err := permission.Require(actor, permission.ViewSuppliers); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, actor permission.Actor) ([]*Supplier, error) {
	if err := permission.Require(actor, permission.ViewSuppliers); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, actor permission.Actor, id uuid.UUID, req UpsertRequest) (*Supplier, error) {
	if err := permission.Require(actor, permission.ManageSuppliers); err != nil {
		return nil, err
	}
	sup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validationf("name is required")
	}
	sup.Name = strings.TrimSpace(req.Name)
	sup.ContactName = req.ContactName
	sup.Email = req.Email
	sup.Phone = req.Phone
	sup.Address = req.Address
	sup.Notes = req.Notes
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	s.record(ctx, actor, audit.ActionUpdate, sup.ID, sup.Name)
	return sup, nil
}

func (s *service) Delete(ctx context.Context, actor permission.Actor, id uuid.UUID) error {
	if err := permission.Require(actor, permission.ManageSuppliers); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, audit.ActionDelete, id, "")
	return nil
}

func (s *service) record(ctx context.Context, actor permission.Actor, action string, id uuid.UUID, name string) {
	var details map[string]interface{}
	if name != "" {
		details = map[string]interface{}{"name": name}
	}
	err := s.recorder.Record(ctx, audit.Entry{
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		Action:       action,
		ResourceType: audit.ResourceSupplier,
		ResourceID:   &id,
		Details:      details,
	})
	if err != nil {
		s.log.Warn("audit write failed", "action", action, "supplier_id", id, "error", err)
	}
}
