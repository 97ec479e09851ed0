package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockroomhq/stockroom-backend/internal/httpx"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Handler exposes the admin audit-log viewer.
type Handler struct{ repo Repository }

func NewHandler(repo Repository) *Handler { return &Handler{repo: repo} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/audit-logs", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	if err := permission.Require(actor, permission.ViewAuditLogs); err != nil {
		httpx.Error(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	entries, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, entries)
}
