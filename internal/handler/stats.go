package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/stats"
	"github.com/ceralandia/api/internal/workflow"
	"github.com/go-chi/chi/v5"
)

// OrderLister defines the service method needed by the statistics
// endpoints. Satisfied by *service.OrderService.
type OrderLister interface {
	FetchAll(ctx context.Context, actor workflow.Actor) ([]order.Order, error)
}

// StatsHandler handles the monthly statistics endpoints.
type StatsHandler struct {
	svc OrderLister
	loc *time.Location
}

// NewStatsHandler creates a new StatsHandler. loc decides the month of
// orders bucketed by creation time.
func NewStatsHandler(svc OrderLister, loc *time.Location) *StatsHandler {
	return &StatsHandler{svc: svc, loc: loc}
}

// RegisterRoutes registers statistics endpoints. Expected to be mounted at
// /stats.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Monthly)
	r.Get("/{month}/{status}", h.DrillDown)
}

type drillDownResponse struct {
	Month  string        `json:"month"`
	Label  string        `json:"label"`
	Status string        `json:"stato"`
	Orders []order.Order `json:"orders"`
}

// Monthly returns per-month counts for every status.
func (h *StatsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.FetchAll(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Aggregate(orders, h.loc))
}

// DrillDown lists the orders behind one cell of the monthly table.
func (h *StatsHandler) DrillDown(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	status := chi.URLParam(r, "status")
	if !stats.ValidMonthKey(month) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mese non valido, usare YYYY-MM"})
		return
	}
	if !enum.IsValidStatus(status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stato non valido"})
		return
	}

	orders, err := h.svc.FetchAll(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, "stats drill-down", err)
		return
	}
	writeJSON(w, http.StatusOK, drillDownResponse{
		Month:  month,
		Label:  stats.MonthLabel(month),
		Status: status,
		Orders: stats.DrillDown(orders, month, status, h.loc),
	})
}
