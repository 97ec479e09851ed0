package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
)

func TestErrorStatusMapping(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validationf("bad"), http.StatusBadRequest},
		{"not found", apperr.NotFound("item", id), http.StatusNotFound},
		{"permission", apperr.PermissionDenied("VIEWER", "create_item"), http.StatusForbidden},
		{"invalid state", apperr.InvalidState("order", id, "COMPLETED"), http.StatusConflict},
		{"conflict", apperr.Conflictf("duplicate sku"), http.StatusConflict},
		{"insufficient stock", apperr.InsufficientStock(id, 1, 2), http.StatusUnprocessableEntity},
		{"negative quantity", apperr.NegativeQuantity(id), http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tc.err)
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	Respond(rec, http.StatusCreated, map[string]int{"n": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}

func TestUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	Unauthorized(rec)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
