// Package apperr defines the typed error kinds shared by all modules.
// Services return these instead of bare strings so handlers (and tests)
// can branch on the kind rather than matching message text.
package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the class of failure.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindPermission        Kind = "PERMISSION_DENIED"
	KindInvalidState      Kind = "INVALID_STATE"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindNegativeQuantity  Kind = "NEGATIVE_QUANTITY"
	KindConflict          Kind = "CONFLICT"
)

// Error is the concrete error type carried across module boundaries.
type Error struct {
	Kind    Kind
	Message string

	// Optional context for user-facing display.
	Resource  string
	Status    string
	Role      string
	Action    string
	Available int
	Requested int
}

func (e *Error) Error() string { return e.Message }

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Is lets errors.Is match two apperr values by kind.
func (e *Error) Is(target error) bool {
	var ae *Error
	if errors.As(target, &ae) {
		return e.Kind == ae.Kind
	}
	return false
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(resource string, id uuid.UUID) *Error {
	return &Error{
		Kind:     KindNotFound,
		Resource: resource,
		Message:  fmt.Sprintf("%s %s not found", resource, id),
	}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func PermissionDenied(role, action string) *Error {
	return &Error{
		Kind:    KindPermission,
		Role:    role,
		Action:  action,
		Message: fmt.Sprintf("role %q does not have permission: %s", role, action),
	}
}

// InvalidState reports a lifecycle transition attempted from a status that
// does not allow it. Status carries the actual current status.
func InvalidState(resource string, id uuid.UUID, status string) *Error {
	return &Error{
		Kind:     KindInvalidState,
		Resource: resource,
		Status:   status,
		Message:  fmt.Sprintf("%s %s is %s", resource, id, status),
	}
}

func InsufficientStock(itemID uuid.UUID, available, requested int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Available: available,
		Requested: requested,
		Message:   fmt.Sprintf("insufficient stock for item %s: available=%d, requested=%d", itemID, available, requested),
	}
}

// NegativeQuantity reports a rejected adjustment at the storage level.
// The completion-time stock re-check makes it unreachable for
// well-formed orders.
func NegativeQuantity(itemID uuid.UUID) *Error {
	return &Error{
		Kind:    KindNegativeQuantity,
		Message: fmt.Sprintf("adjustment would drive quantity of item %s below zero", itemID),
	}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
