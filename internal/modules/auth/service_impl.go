package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/user"
)

// Claims carries the actor identity inside the JWT.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

type service struct {
	userRepo user.Repository
	secret   []byte
	recorder audit.Recorder
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, secret string, recorder audit.Recorder) Service {
	return &service{userRepo: userRepo, secret: []byte(secret), recorder: recorder}
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", apperr.Validationf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", apperr.Validationf("invalid credentials")
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			ExpiresAt: expirationTime.Unix(),
		},
		Username: u.Username,
		Role:     u.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	// Login trail is best-effort like every other audit write.
	_ = s.recorder.Record(ctx, audit.Entry{
		ActorID:      u.ID,
		ActorName:    u.Username,
		Action:       audit.ActionLogin,
		ResourceType: audit.ResourceUser,
		ResourceID:   &u.ID,
	})

	return tokenString, nil
}
