package storefront

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LucasAlvarez99/LA-PICADA/internal/catalog"
	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
	"github.com/LucasAlvarez99/LA-PICADA/internal/handler"
	"github.com/LucasAlvarez99/LA-PICADA/internal/service"
	"github.com/LucasAlvarez99/LA-PICADA/internal/session"
	"github.com/LucasAlvarez99/LA-PICADA/internal/telemetry"
)

// CartHandler handles all cart routes. Each visitor's cart lives in their
// session; mutating routes create the session on first touch.
type CartHandler struct {
	sessions *session.Registry
	catalog  catalog.Provider
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
	secure   bool
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(sessions *session.Registry, provider catalog.Provider, metrics *telemetry.BusinessMetrics, logger *slog.Logger, secure bool) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{
		sessions: sessions,
		catalog:  provider,
		metrics:  metrics,
		logger:   logger,
		secure:   secure,
	}
}

// session resolves the visitor's session, creating one and reissuing the
// cookie when needed.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s, created := h.sessions.GetOrCreate(GetSessionIDFromCookie(r))
	if created {
		SetSessionCookie(w, s.ID, h.secure)
	}
	return s
}

// cartItemResponse is the JSON shape of one cart line.
type cartItemResponse struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Unit      string `json:"unit"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
	Stock     int    `json:"stock"`
}

type cartResponse struct {
	Items      []cartItemResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice int64              `json:"totalPrice"`
}

func toCartResponse(cart *service.Cart) cartResponse {
	items := cart.Items()
	out := cartResponse{
		Items:      make([]cartItemResponse, 0, len(items)),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
	for _, item := range items {
		out.Items = append(out.Items, cartItemResponse{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Unit:      item.Product.Unit,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
			Stock:     item.StockAtAdd,
		})
	}
	return out
}

// View handles GET /api/cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	handler.RespondJSON(w, http.StatusOK, toCartResponse(s.Cart))
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.RespondError(w, r, domain.Errorf(domain.EINVALID, "storefront.CartAdd", "invalid request body"))
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	if !product.Active {
		handler.RespondError(w, r, domain.NotFound("storefront.CartAdd", "product", strconv.FormatInt(product.ID, 10)))
		return
	}

	s := h.session(w, r)
	if err := s.Cart.AddItem(product, req.Quantity); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues("add").Inc()
		h.metrics.ProductAddToCart.WithLabelValues(strconv.FormatInt(product.ID, 10)).Inc()
	}
	handler.RespondJSON(w, http.StatusOK, toCartResponse(s.Cart))
}

// UpdateItem handles PATCH /api/cart/items/{id}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handler.RespondError(w, r, domain.Errorf(domain.EINVALID, "storefront.CartUpdate", "invalid product id"))
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.RespondError(w, r, domain.Errorf(domain.EINVALID, "storefront.CartUpdate", "invalid request body"))
		return
	}

	s := h.session(w, r)
	if err := s.Cart.UpdateQuantity(productID, req.Quantity); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues("update").Inc()
	}
	handler.RespondJSON(w, http.StatusOK, toCartResponse(s.Cart))
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handler.RespondError(w, r, domain.Errorf(domain.EINVALID, "storefront.CartRemove", "invalid product id"))
		return
	}

	s := h.session(w, r)
	s.Cart.RemoveItem(productID)

	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues("remove").Inc()
	}
	handler.RespondJSON(w, http.StatusOK, toCartResponse(s.Cart))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	s.Cart.Clear()

	if h.metrics != nil {
		h.metrics.CartCleared.Inc()
	}
	handler.RespondJSON(w, http.StatusOK, toCartResponse(s.Cart))
}
