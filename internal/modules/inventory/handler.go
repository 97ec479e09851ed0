package inventory

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/httpx"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Handler exposes item HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/items", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list) // GET /api/v1/items?q=widget
		r.Get("/low-stock", h.lowStock)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validationf("invalid request body"))
		return
	}
	item, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, item)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid item id"))
		return
	}
	item, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, item)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	items, err := h.service.Search(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	items, err := h.service.LowStock(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid item id"))
		return
	}
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validationf("invalid request body"))
		return
	}
	item, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid item id"))
		return
	}
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "item deleted"})
}
