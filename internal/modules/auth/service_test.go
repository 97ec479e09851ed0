package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
	"github.com/stockroomhq/stockroom-backend/internal/modules/user"
)

type fakeUserRepo struct{ byUsername map[string]*user.User }

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	f.byUsername[u.Username] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user", id)
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, apperr.NotFoundf("user %s not found", username)
	}
	return u, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*user.User, error) {
	var out []*user.User
	for _, u := range f.byUsername {
		out = append(out, u)
	}
	return out, nil
}

type captureRecorder struct{ entries []audit.Entry }

func (c *captureRecorder) Record(_ context.Context, e audit.Entry) error {
	c.entries = append(c.entries, e)
	return nil
}

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (Service, *fakeUserRepo, *captureRecorder, uuid.UUID) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	id := uuid.New()
	repo := &fakeUserRepo{byUsername: map[string]*user.User{
		"ana": {ID: id, Username: "ana", Email: "ana@shop.test", PasswordHash: string(hash), Role: permission.RoleAdmin},
	}}
	recorder := &captureRecorder{}
	return NewService(repo, testSecret, recorder), repo, recorder, id
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, _, recorder, id := newAuthFixture(t)

	token, err := svc.Login(context.Background(), "ana", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, id.String(), claims.Subject)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, permission.RoleAdmin, claims.Role)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionLogin, recorder.entries[0].Action)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, recorder, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana", "wrong")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Login(ctx, "nobody", "s3cret")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Empty(t, recorder.entries)
}

func TestMiddlewareSetsActor(t *testing.T) {
	svc, _, _, id := newAuthFixture(t)
	token, err := svc.Login(context.Background(), "ana", "s3cret")
	require.NoError(t, err)

	var got permission.Actor
	var ok bool
	handler := Middleware(testSecret)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = permission.ActorFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "ana", got.Username)
	assert.Equal(t, permission.RoleAdmin, got.Role)
}

func TestMiddlewarePassesThroughWithoutToken(t *testing.T) {
	var ok bool
	handler := Middleware(testSecret)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, ok = permission.ActorFromRequest(r)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
	assert.False(t, ok)
}

func TestMiddlewareIgnoresGarbageToken(t *testing.T) {
	var ok bool
	handler := Middleware(testSecret)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, ok = permission.ActorFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}
