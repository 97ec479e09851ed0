// Package permission implements the role-based permission gate consulted
// before every mutating operation.
package permission

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
)

// Roles.
const (
	RoleAdmin  = "ADMIN"
	RoleStaff  = "STAFF"
	RoleViewer = "VIEWER"
)

// Actions.
const (
	ViewInventory   = "view_inventory"
	CreateItem      = "create_item"
	EditItem        = "edit_item"
	DeleteItem      = "delete_item"
	CreatePurchase  = "create_purchase"
	CreateSale      = "create_sale"
	ViewReports     = "view_reports"
	ManageTeam      = "manage_team"
	ViewSuppliers   = "view_suppliers"
	ManageSuppliers = "manage_suppliers"
	ViewCustomers   = "view_customers"
	ManageCustomers = "manage_customers"
	ManageUsers     = "manage_users"
	ViewAuditLogs   = "view_audit_logs"
)

// Actor is the authenticated caller on whose behalf a request runs.
type Actor struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

type contextKey struct{}

var actorKey contextKey

// WithActor returns a context carrying the actor. Set by the auth
// middleware once the bearer token is verified.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// ActorFromRequest is a convenience for handlers.
func ActorFromRequest(r *http.Request) (Actor, bool) {
	return ActorFromContext(r.Context())
}

// matrix maps each non-admin role to its granted actions. ADMIN implicitly
// has every permission.
var matrix = map[string]map[string]bool{
	RoleStaff: {
		ViewInventory:   true,
		CreateItem:      true,
		EditItem:        true,
		DeleteItem:      true,
		CreatePurchase:  true,
		CreateSale:      true,
		ViewReports:     true,
		ManageTeam:      true,
		ViewSuppliers:   true,
		ManageSuppliers: true,
		ViewCustomers:   true,
		ManageCustomers: true,
	},
	RoleViewer: {
		ViewInventory: true,
		ViewReports:   true,
		ViewSuppliers: true,
		ViewCustomers: true,
	},
}

// Allowed reports whether the role holds the permission.
func Allowed(role, action string) bool {
	if role == RoleAdmin {
		return true
	}
	return matrix[role][action]
}

// Require returns a PermissionError when the actor's role lacks the action.
func Require(actor Actor, action string) error {
	if !Allowed(actor.Role, action) {
		return apperr.PermissionDenied(actor.Role, action)
	}
	return nil
}
