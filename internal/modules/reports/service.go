package reports

import (
	"context"

	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Repository defines the read-only report queries.
type Repository interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

// Service defines reporting business logic. Reports only ever read; no
// report path mutates the item or order stores.
type Service interface {
	Dashboard(ctx context.Context, actor permission.Actor) (*Dashboard, error)
}

type service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Dashboard(ctx context.Context, actor permission.Actor) (*Dashboard, error) {
	if err := permission.Require(actor, permission.ViewReports); err != nil {
		return nil, err
	}
	return s.repo.Dashboard(ctx)
}
