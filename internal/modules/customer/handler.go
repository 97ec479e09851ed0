package customer

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/httpx"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Handler exposes customer HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
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
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validationf("invalid request body"))
		return
	}
	sup, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, sup)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid customer id"))
		return
	}
	sup, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sup)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	customers, err := h.service.List(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, customers)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid customer id"))
		return
	}
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validationf("invalid request body"))
		return
	}
	sup, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sup)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid customer id"))
		return
	}
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "customer deleted"})
}
