package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Service defines user management business logic.
type Service interface {
	Register(ctx context.Context, actor permission.Actor, req RegisterRequest) (*User, error)
	Get(ctx context.Context, actor permission.Actor, id uuid.UUID) (*User, error)
	List(ctx context.Context, actor permission.Actor) ([]*User, error)
}

// RegisterRequest holds data for creating a user.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, actor permission.Actor, req RegisterRequest) (*User, error) {
	if err := permission.Require(actor, permission.ManageUsers); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Username) == "" {
		return nil, apperr.Validationf("username is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validationf("password must be at least 8 characters")
	}
	role := strings.ToUpper(req.Role)
	switch role {
	case "":
		role = permission.RoleStaff
	case permission.RoleAdmin, permission.RoleStaff, permission.RoleViewer:
	default:
		return nil, apperr.Validationf("unknown role %q", req.Role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, actor permission.Actor, id uuid.UUID) (*User, error) {
	if err := permission.Require(actor, permission.ManageUsers); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, actor permission.Actor) ([]*User, error) {
	if err := permission.Require(actor, permission.ManageUsers); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}
