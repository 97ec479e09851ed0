package order

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
	"github.com/stockroomhq/stockroom-backend/internal/httpx"
	"github.com/stockroomhq/stockroom-backend/internal/modules/permission"
)

// Handler exposes the endpoints for one order kind. It is mounted twice:
// at /api/v1/purchase-orders and /api/v1/sales-orders.
type Handler struct {
	service Service
	base    string
}

func NewHandler(service Service, kind Kind) *Handler {
	base := "/api/v1/sales-orders"
	if kind == KindPurchase {
		base = "/api/v1/purchase-orders"
	}
	return &Handler{service: service, base: base}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route(h.base, func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list) // ?status=PENDING
		r.Get("/{id}", h.get)
		r.Post("/{id}/complete", h.complete)
		r.Post("/{id}/cancel", h.cancel)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validationf("invalid request body"))
		return
	}
	o, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid order id"))
		return
	}
	o, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	status := Status(strings.ToUpper(r.URL.Query().Get("status")))
	orders, err := h.service.List(r.Context(), actor, status)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, orders)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid order id"))
		return
	}
	o, err := h.service.Complete(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid order id"))
		return
	}
	o, err := h.service.Cancel(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := permission.ActorFromRequest(r)
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, apperr.Validationf("invalid order id"))
		return
	}
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "order deleted"})
}
