package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

type memRepo struct{ users map[uuid.UUID]*User }

func newMemRepo() *memRepo { return &memRepo{users: map[uuid.UUID]*User{}} }

func (m *memRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return apperr.Conflictf("username %s already taken", u.Username)
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	return u, nil
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFoundf("user %s not found", username)
}

func (m *memRepo) List(_ context.Context) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

var admin = permission.Actor{ID: uuid.New(), Username: "root", Role: permission.RoleAdmin}

func TestRegisterHashesPassword(t *testing.T) {
	svc := NewService(newMemRepo())

	u, err := svc.Register(context.Background(), admin, RegisterRequest{
		Username: "ana",
		Email:    "ana@shop.test",
		Password: "longenough",
		Role:     "staff",
	})
	require.NoError(t, err)

	assert.Equal(t, permission.RoleStaff, u.Role)
	assert.NotEqual(t, "longenough", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenough")))
}

func TestRegisterDefaultsToStaff(t *testing.T) {
	svc := NewService(newMemRepo())

	u, err := svc.Register(context.Background(), admin, RegisterRequest{
		Username: "ana", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, permission.RoleStaff, u.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, admin, RegisterRequest{Username: " ", Password: "longenough"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Register(ctx, admin, RegisterRequest{Username: "ana", Password: "short"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Register(ctx, admin, RegisterRequest{Username: "ana", Password: "longenough", Role: "WIZARD"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegisterRequiresManageUsers(t *testing.T) {
	svc := NewService(newMemRepo())
	staff := permission.Actor{ID: uuid.New(), Username: "bo", Role: permission.RoleStaff}

	_, err := svc.Register(context.Background(), staff, RegisterRequest{
		Username: "ana", Password: "longenough",
	})
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, admin, RegisterRequest{Username: "ana", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, admin, RegisterRequest{Username: "ana", Password: "longenough"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
