package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/pending"
	"github.com/ceralandia/api/internal/service"
	"github.com/ceralandia/api/internal/workflow"
)

func isValidationError(err error) bool {
	return errors.Is(err, order.ErrCustomerRequired) ||
		errors.Is(err, order.ErrInvalidStatus) ||
		errors.Is(err, order.ErrInvalidQuantity) ||
		errors.Is(err, order.ErrInvalidDate) ||
		errors.Is(err, workflow.ErrInvalidStatus) ||
		errors.Is(err, service.ErrInvalidPartition) ||
		errors.Is(err, service.ErrEmptyImport)
}

// writeServiceError maps an order service error to an HTTP response. op
// names the operation in the server log.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var importErr *service.ImportError
	switch {
	case errors.Is(err, workflow.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case workflow.IsForbidden(err), errors.Is(err, service.ErrNotRequester):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, pending.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidPhase):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &importErr):
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":  "importazione interrotta",
			"import": importErr.ImportSummary,
		})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// writeOutcomeError is writeServiceError for mutations that rolled back.
// The body tells the client which status to show again. A partial import
// reports its summary instead.
func writeOutcomeError(w http.ResponseWriter, op string, out service.Outcome, err error) {
	var importErr *service.ImportError
	var storeErr *service.StoreError
	switch {
	case errors.As(err, &importErr):
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":  "importazione interrotta",
			"phase":  out.Phase,
			"import": importErr.ImportSummary,
		})
	case out.Phase == workflow.PhaseRolledBack && errors.As(err, &storeErr):
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":          "salvataggio non riuscito",
			"phase":          out.Phase,
			"visible_status": out.Visible,
			"order":          out.Order,
		})
	default:
		writeServiceError(w, op, err)
	}
}

// writeOutcome answers 202 for operations waiting on a confirmation and
// status otherwise.
func writeOutcome(w http.ResponseWriter, status int, out service.Outcome) {
	if out.Phase == workflow.PhasePending {
		status = http.StatusAccepted
	}
	writeJSON(w, status, out)
}
