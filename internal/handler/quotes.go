package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/ceralandia/api/internal/catalog"
	"github.com/ceralandia/api/internal/database"
	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderGetter is satisfied by *service.OrderService.
type OrderGetter interface {
	Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (order.Order, error)
}

// CatalogLister is satisfied by *database.Queries.
type CatalogLister interface {
	ListProducts(ctx context.Context) ([]database.ProductsCatalog, error)
}

// QuoteHandler prices orders against the product catalog.
type QuoteHandler struct {
	orders   OrderGetter
	products CatalogLister
}

func NewQuoteHandler(orders OrderGetter, products CatalogLister) *QuoteHandler {
	return &QuoteHandler{orders: orders, products: products}
}

// RegisterRoutes registers quote endpoints. Expected to be mounted at
// /quotes.
func (h *QuoteHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}", h.Get)
}

// Get returns an indicative quote for one order.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "order")
	if !ok {
		return
	}

	o, err := h.orders.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeServiceError(w, "quote order", err)
		return
	}

	rows, err := h.products.ListProducts(r.Context())
	if err != nil {
		log.Printf("ERROR: list products for quote: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, catalog.New(catalog.FromRows(rows)).Quote(o))
}
