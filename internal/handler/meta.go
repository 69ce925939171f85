package handler

import (
	"net/http"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/search"
	"github.com/go-chi/chi/v5"
)

// MetaHandler serves the fixed lists the order form needs.
type MetaHandler struct {
	operators []string
	workers   []string
}

func NewMetaHandler(operators, workers []string) *MetaHandler {
	return &MetaHandler{operators: operators, workers: workers}
}

func (h *MetaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/meta", h.Get)
}

type statusMeta struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

type metaResponse struct {
	Operators   []string     `json:"operators"`
	Workers     []string     `json:"workers"`
	Statuses    []statusMeta `json:"statuses"`
	AnyOperator string       `json:"any_operator"`
	Partitions  []string     `json:"partitions"`
}

func (h *MetaHandler) Get(w http.ResponseWriter, r *http.Request) {
	statuses := make([]statusMeta, len(enum.Statuses))
	for i, s := range enum.Statuses {
		statuses[i] = statusMeta{Value: s, Label: enum.StatusLabel(s), Color: enum.StatusColor(s)}
	}
	writeJSON(w, http.StatusOK, metaResponse{
		Operators:   h.operators,
		Workers:     h.workers,
		Statuses:    statuses,
		AnyOperator: search.AnyOperator,
		Partitions:  []string{enum.PartitionActive, enum.PartitionDelivered},
	})
}
