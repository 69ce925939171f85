package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ceralandia/api/internal/catalog"
	"github.com/ceralandia/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ProductStore defines the database methods needed by product handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]database.ProductsCatalog, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.ProductsCatalog, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.ProductsCatalog, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.ProductsCatalog, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ProductHandler handles the product catalog endpoints.
type ProductHandler struct {
	store ProductStore
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// RegisterRoutes registers the read endpoints. Expected to be mounted at
// /products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers the write endpoints. The caller guards
// them with the admin role.
func (h *ProductHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

// productRequest carries prices as decimal strings; an empty string means
// no price for that tier.
type productRequest struct {
	Name         string `json:"nome"`
	Image        string `json:"immagine"`
	PriceRetail  string `json:"prezzo_dettaglio"`
	Price10      string `json:"prezzo_10"`
	Price20      string `json:"prezzo_20"`
	Price50      string `json:"prezzo_50"`
	Price100     string `json:"prezzo_100"`
	Price100Plus string `json:"prezzo_100_plus"`
}

type productResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"nome"`
	Image        *string   `json:"immagine"`
	PriceRetail  *string   `json:"prezzo_dettaglio"`
	Price10      *string   `json:"prezzo_10"`
	Price20      *string   `json:"prezzo_20"`
	Price50      *string   `json:"prezzo_50"`
	Price100     *string   `json:"prezzo_100"`
	Price100Plus *string   `json:"prezzo_100_plus"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// productParams is the validated form of a productRequest.
type productParams struct {
	name   string
	image  pgtype.Text
	prices [6]pgtype.Numeric
}

func toProductResponse(p database.ProductsCatalog) productResponse {
	resp := productResponse{
		ID:           p.ID,
		Name:         p.Nome,
		PriceRetail:  numericToString(p.PrezzoDettaglio),
		Price10:      numericToString(p.Prezzo10),
		Price20:      numericToString(p.Prezzo20),
		Price50:      numericToString(p.Prezzo50),
		Price100:     numericToString(p.Prezzo100),
		Price100Plus: numericToString(p.Prezzo100Plus),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Immagine.Valid {
		resp.Image = &p.Immagine.String
	}
	return resp
}

// --- Helpers ---

// numericToString formats a price with 2 decimal places, or nil when unset.
func numericToString(n pgtype.Numeric) *string {
	d := catalog.Decimal(n)
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

var errNegativePrice = errors.New("negative price")

func parsePrice(s string) (pgtype.Numeric, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{}, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return pgtype.Numeric{}, err
	}
	if d.IsNegative() {
		return pgtype.Numeric{}, errNegativePrice
	}
	var n pgtype.Numeric
	if err := n.Scan(d.Round(2).String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

func isValidImage(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "data:image/")
}

func (req productRequest) validate() (productParams, error) {
	var p productParams
	p.name = strings.TrimSpace(req.Name)
	if p.name == "" {
		return p, errors.New("nome is required")
	}

	if img := strings.TrimSpace(req.Image); img != "" {
		if !isValidImage(img) {
			return p, errors.New("immagine must be an http(s) URL or a data:image URI")
		}
		p.image = pgtype.Text{String: img, Valid: true}
	}

	tiers := []struct {
		field string
		value string
	}{
		{"prezzo_dettaglio", req.PriceRetail},
		{"prezzo_10", req.Price10},
		{"prezzo_20", req.Price20},
		{"prezzo_50", req.Price50},
		{"prezzo_100", req.Price100},
		{"prezzo_100_plus", req.Price100Plus},
	}
	for i, t := range tiers {
		n, err := parsePrice(t.value)
		if err != nil {
			if errors.Is(err, errNegativePrice) {
				return p, fmt.Errorf("%s must be >= 0", t.field)
			}
			return p, fmt.Errorf("invalid %s", t.field)
		}
		p.prices[i] = n
	}
	return p, nil
}

// --- Handlers ---

// List returns the whole catalog ordered by name.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		log.Printf("ERROR: list products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single product by ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "product")
	if !ok {
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: get product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	p, err := req.validate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	product, err := h.store.CreateProduct(r.Context(), database.CreateProductParams{
		Nome:            p.name,
		Immagine:        p.image,
		PrezzoDettaglio: p.prices[0],
		Prezzo10:        p.prices[1],
		Prezzo20:        p.prices[2],
		Prezzo50:        p.prices[3],
		Prezzo100:       p.prices[4],
		Prezzo100Plus:   p.prices[5],
	})
	if err != nil {
		log.Printf("ERROR: create product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update replaces every field of a product.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "product")
	if !ok {
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	p, err := req.validate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), database.UpdateProductParams{
		ID:              id,
		Nome:            p.name,
		Immagine:        p.image,
		PrezzoDettaglio: p.prices[0],
		Prezzo10:        p.prices[1],
		Prezzo20:        p.prices[2],
		Prezzo50:        p.prices[3],
		Prezzo100:       p.prices[4],
		Prezzo100Plus:   p.prices[5],
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: update product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete removes a product from the catalog.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "product")
	if !ok {
		return
	}

	if _, err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: delete product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
