// Package httpx holds the JSON response helpers shared by module handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
)

func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Error maps a service error to an HTTP status by its apperr kind.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindNotFound:
			status = http.StatusNotFound
		case apperr.KindPermission:
			status = http.StatusForbidden
		case apperr.KindInvalidState, apperr.KindConflict:
			status = http.StatusConflict
		case apperr.KindInsufficientStock, apperr.KindNegativeQuantity:
			status = http.StatusUnprocessableEntity
		}
	}
	Respond(w, status, map[string]string{"error": err.Error()})
}

func Unauthorized(w http.ResponseWriter) {
	Respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
}
