// Package storefront exposes the shop's JSON API: catalog browsing, the
// session cart, and the four-step checkout.
package storefront

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LucasAlvarez99/LA-PICADA/internal/catalog"
	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
	"github.com/LucasAlvarez99/LA-PICADA/internal/handler"
	"github.com/LucasAlvarez99/LA-PICADA/internal/telemetry"
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	catalog catalog.Provider
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(provider catalog.Provider, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{
		catalog: provider,
		metrics: metrics,
		logger:  logger,
	}
}

// productResponse is the JSON shape of one catalog product.
type productResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Stock       int    `json:"stock"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Unit:        p.Unit,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Stock:       p.Stock,
	}
}

// List handles GET /api/products. An optional ?categoria= query narrows the
// listing to one category.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		products []domain.Product
		err      error
	)
	if category := r.URL.Query().Get("categoria"); category != "" {
		products, err = h.catalog.ListByCategory(ctx, category)
	} else {
		products, err = h.catalog.ListProducts(ctx)
	}
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	handler.RespondJSON(w, http.StatusOK, out)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handler.RespondError(w, r, domain.Errorf(domain.EINVALID, "storefront.ProductGet", "invalid product id"))
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ProductViews.WithLabelValues(product.Category).Inc()
	}
	handler.RespondJSON(w, http.StatusOK, toProductResponse(product))
}

// Categories handles GET /api/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, categories)
}
