package handler

import (
	"context"
	"net/http"

	"github.com/ceralandia/api/internal/service"
	"github.com/ceralandia/api/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ConfirmationResolver defines the service methods needed to resolve
// pending confirmations. Satisfied by *service.OrderService.
type ConfirmationResolver interface {
	Confirm(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error)
	Cancel(ctx context.Context, actor workflow.Actor, id uuid.UUID) (service.Outcome, error)
}

// ConfirmationHandler handles the confirm/cancel step of operations that
// need an explicit yes from the operator.
type ConfirmationHandler struct {
	svc ConfirmationResolver
}

// NewConfirmationHandler creates a new ConfirmationHandler.
func NewConfirmationHandler(svc ConfirmationResolver) *ConfirmationHandler {
	return &ConfirmationHandler{svc: svc}
}

// RegisterRoutes registers confirmation endpoints. Expected to be mounted
// at /confirmations.
func (h *ConfirmationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/cancel", h.Cancel)
}

func (h *ConfirmationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "confirmation")
	if !ok {
		return
	}
	out, err := h.svc.Confirm(r.Context(), actorFrom(r), id)
	if err != nil {
		writeOutcomeError(w, "confirm", out, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ConfirmationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "confirmation")
	if !ok {
		return
	}
	out, err := h.svc.Cancel(r.Context(), actorFrom(r), id)
	if err != nil {
		writeServiceError(w, "cancel", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
