package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can operate the system. Role is one of
// the permission package's ADMIN/STAFF/VIEWER roles.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
