package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/middleware"
	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/search"
	"github.com/ceralandia/api/internal/service"
	"github.com/ceralandia/api/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Fetch(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error)
	FetchAll(ctx context.Context, actor workflow.Actor) ([]order.Order, error)
	Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (order.Order, error)
	Create(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error)
	Update(ctx context.Context, actor workflow.Actor, o order.Order) (service.Outcome, error)
	ChangeStatus(ctx context.Context, actor workflow.Actor, id uuid.UUID, to string) (service.Outcome, error)
	Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
	PrepareImport(ctx context.Context, actor workflow.Actor, partition string, rows []order.Order) (service.Outcome, error)
	Confirm(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error)
	Cancel(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc OrderServicer
	loc *time.Location
}

// NewOrderHandler creates a new OrderHandler. loc is used to render
// timestamps in the print view.
func NewOrderHandler(svc OrderServicer, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandler{svc: svc, loc: loc}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/print", h.Print)
}

// --- Request types ---

type orderRequest struct {
	Customer string          `json:"cliente"`
	Phone    string          `json:"telefono"`
	Operator string          `json:"operatore"`
	Worker   string          `json:"lavoratore"`
	Status   string          `json:"stato"`
	Delivery string          `json:"consegna"`
	Items    json.RawMessage `json:"prodotti"`
}

type updateStatusRequest struct {
	Status string `json:"stato"`
}

func (req orderRequest) toOrder() (order.Order, error) {
	delivery, err := order.ParseDate(req.Delivery)
	if err != nil {
		return order.Order{}, err
	}
	items := []order.LineItem{}
	if len(req.Items) > 0 {
		items = order.ParseLineItems(req.Items)
	}
	return order.Order{
		Customer: strings.TrimSpace(req.Customer),
		Phone:    strings.TrimSpace(req.Phone),
		Operator: strings.TrimSpace(req.Operator),
		Worker:   strings.TrimSpace(req.Worker),
		Status:   req.Status,
		Delivery: delivery,
		Items:    items,
	}, nil
}

// --- Helpers ---

func actorFrom(r *http.Request) workflow.Actor {
	s, _ := middleware.SessionFromContext(r.Context())
	return s.Actor()
}

func parseID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

func partitionParam(r *http.Request) string {
	if p := r.URL.Query().Get("partition"); p != "" {
		return p
	}
	return enum.PartitionActive
}

// --- Handlers ---

// List returns one partition, optionally filtered by free text (q) and
// operator (operatore).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Fetch(r.Context(), actorFrom(r), partitionParam(r))
	if err != nil {
		writeServiceError(w, "list orders", err)
		return
	}

	q := search.Query{
		Text:     r.URL.Query().Get("q"),
		Operator: r.URL.Query().Get("operatore"),
	}
	writeJSON(w, http.StatusOK, search.Filter(orders, q))
}

// Get returns a single order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "order")
	if !ok {
		return
	}
	o, err := h.svc.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeServiceError(w, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// Create inserts a new order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	o, err := req.toOrder()
	if err != nil {
		writeServiceError(w, "create order", err)
		return
	}

	out, err := h.svc.Create(r.Context(), actorFrom(r), o)
	if err != nil {
		writeOutcomeError(w, "create order", out, err)
		return
	}
	writeOutcome(w, http.StatusCreated, out)
}

// Update replaces every field of an order.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "order")
	if !ok {
		return
	}
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	o, err := req.toOrder()
	if err != nil {
		writeServiceError(w, "update order", err)
		return
	}
	o.ID = id

	out, err := h.svc.Update(r.Context(), actorFrom(r), o)
	if err != nil {
		writeOutcomeError(w, "update order", out, err)
		return
	}
	writeOutcome(w, http.StatusOK, out)
}

// UpdateStatus moves an order to another status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "order")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stato is required"})
		return
	}

	out, err := h.svc.ChangeStatus(r.Context(), actorFrom(r), id, req.Status)
	if err != nil {
		writeOutcomeError(w, "update order status", out, err)
		return
	}
	writeOutcome(w, http.StatusOK, out)
}

// Delete removes an order. Admin only.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "order")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeServiceError(w, "delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
