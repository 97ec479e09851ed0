package alert

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/httpx"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Handler exposes stock alert HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/alerts", func(r chi.Router) {
		r.Get("/", h.listActive)
		r.Get("/summary", h.summary)
		r.Post("/sweep", h.sweep)
		r.Post("/{id}/resolve", h.resolve)
		r.Post("/item/{item_id}/resolve", h.resolveForItem)
		r.Post("/email-digest", h.emailDigest)
	})
}

func (h *Handler) listActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	alerts, err := h.service.ListActive(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, alerts)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	summary, err := h.service.Summary(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, summary)
}

func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	created, err := h.service.Sweep(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{
		"alerts": created,
		"count":  len(created),
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid alert id"))
		return
	}
	if err := h.service.Resolve(r.Context(), actor, id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "alert resolved"})
}

func (h *Handler) resolveForItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid item id"))
		return
	}
	count, err := h.service.ResolveAllForItem(r.Context(), actor, itemID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]int64{"resolved": count})
}

func (h *Handler) emailDigest(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	sent, err := h.service.SendLowStockDigest(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]int{"recipients": sent})
}
