package auth

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Middleware parses the bearer token and, when valid, stores the actor on
// the request context. Requests without a token pass through; handlers that
// need an actor reject them via permission.ActorFromRequest.
func Middleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			claims := &Claims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
				func(t *jwt.Token) (interface{}, error) { return key, nil })
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}
			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			actor := permission.Actor{ID: id, Username: claims.Username, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(permission.WithActor(r.Context(), actor)))
		})
	}
}
