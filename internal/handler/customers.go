package handler

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/search"
	"github.com/go-chi/chi/v5"
)

// CustomerHandler serves the customer directory. Customers are not stored
// on their own: they are derived from the name and phone of every order.
type CustomerHandler struct {
	svc OrderLister
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(svc OrderLister) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// RegisterRoutes registers customer endpoints. Expected to be mounted at
// /customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{phone}/orders", h.Orders)
}

type customerResponse struct {
	Name      string    `json:"cliente"`
	Phone     string    `json:"telefono"`
	Orders    int       `json:"ordini"`
	Active    int       `json:"attivi"`
	LastOrder time.Time `json:"ultimo_ordine"`
}

// phoneKey keeps only the digits so "333 123 4567" and "3331234567" are
// the same customer.
func phoneKey(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

func customerKey(o order.Order) string {
	if k := phoneKey(o.Phone); k != "" {
		return k
	}
	return "nome:" + search.Normalize(o.Customer)
}

// directory groups orders by customer, most recent order first. The name
// and phone shown are the ones on the newest order.
func directory(orders []order.Order) []customerResponse {
	byKey := make(map[string]*customerResponse)
	for _, o := range orders {
		k := customerKey(o)
		c, ok := byKey[k]
		if !ok {
			c = &customerResponse{}
			byKey[k] = c
		}
		c.Orders++
		if !o.IsDelivered() {
			c.Active++
		}
		if c.Orders == 1 || o.CreatedAt.After(c.LastOrder) {
			c.Name = o.Customer
			c.Phone = o.Phone
			c.LastOrder = o.CreatedAt
		}
	}

	out := make([]customerResponse, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastOrder.Equal(out[j].LastOrder) {
			return out[i].LastOrder.After(out[j].LastOrder)
		}
		return search.Normalize(out[i].Name) < search.Normalize(out[j].Name)
	})
	return out
}

// List returns known customers, with optional search and pagination.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	// Parse pagination
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	orders, err := h.svc.FetchAll(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, "list customers", err)
		return
	}

	customers := directory(orders)
	if q := search.Normalize(r.URL.Query().Get("q")); q != "" {
		matched := customers[:0]
		for _, c := range customers {
			if strings.Contains(search.Normalize(c.Name+" "+c.Phone), q) {
				matched = append(matched, c)
			}
		}
		customers = matched
	}

	if offset > len(customers) {
		offset = len(customers)
	}
	end := offset + limit
	if end > len(customers) {
		end = len(customers)
	}
	writeJSON(w, http.StatusOK, customers[offset:end])
}

// Orders returns every order placed from the given phone number, newest
// first.
func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	key := phoneKey(chi.URLParam(r, "phone"))
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid phone number"})
		return
	}

	orders, err := h.svc.FetchAll(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, "list customer orders", err)
		return
	}

	out := make([]order.Order, 0)
	for _, o := range orders {
		if phoneKey(o.Phone) == key {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	writeJSON(w, http.StatusOK, out)
}
