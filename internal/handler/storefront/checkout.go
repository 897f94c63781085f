package storefront

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
	"github.com/LucasAlvarez99/LA-PICADA/internal/handler"
	"github.com/LucasAlvarez99/LA-PICADA/internal/service"
	"github.com/LucasAlvarez99/LA-PICADA/internal/session"
	"github.com/LucasAlvarez99/LA-PICADA/internal/telemetry"
)

// CheckoutHandler drives the session's checkout machine over JSON.
type CheckoutHandler struct {
	sessions *session.Registry
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
	secure   bool
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(sessions *session.Registry, metrics *telemetry.BusinessMetrics, logger *slog.Logger, secure bool) *CheckoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutHandler{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		secure:   secure,
	}
}

func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s, created := h.sessions.GetOrCreate(GetSessionIDFromCookie(r))
	if created {
		SetSessionCookie(w, s.ID, h.secure)
	}
	return s
}

type customerResponse struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
	Notes          string `json:"notes"`
	DeliveryMethod string `json:"deliveryMethod"`
	DeliveryTime   string `json:"deliveryTime"`
}

type pricingResponse struct {
	Subtotal    int64 `json:"subtotal"`
	Discount    int64 `json:"discount"`
	DeliveryFee int64 `json:"deliveryFee"`
	FinalTotal  int64 `json:"finalTotal"`
}

type checkoutStateResponse struct {
	Step          int               `json:"step"`
	StepName      string            `json:"stepName"`
	Customer      customerResponse  `json:"customer"`
	PaymentMethod string            `json:"paymentMethod"`
	FieldErrors   map[string]string `json:"fieldErrors"`
	Pricing       pricingResponse   `json:"pricing"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		City:           c.City,
		PostalCode:     c.PostalCode,
		Notes:          c.Notes,
		DeliveryMethod: string(c.DeliveryMethod),
		DeliveryTime:   c.DeliveryTime,
	}
}

func toPricingResponse(p domain.PricingBreakdown) pricingResponse {
	return pricingResponse{
		Subtotal:    p.Subtotal,
		Discount:    p.Discount,
		DeliveryFee: p.DeliveryFee,
		FinalTotal:  p.FinalTotal,
	}
}

func toStateResponse(c *service.Checkout) checkoutStateResponse {
	fieldErrors := c.FieldErrors()
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	return checkoutStateResponse{
		Step:          int(c.Step()),
		StepName:      c.Step().String(),
		Customer:      toCustomerResponse(c.Customer()),
		PaymentMethod: string(c.PaymentMethod()),
		FieldErrors:   fieldErrors,
		Pricing:       toPricingResponse(c.Pricing()),
	}
}

// View handles GET /api/checkout.
func (h *CheckoutHandler) View(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	handler.RespondJSON(w, http.StatusOK, toStateResponse(s.Checkout))
}

// SetFields handles POST /api/checkout/fields. The body is a flat object of
// field names to values; each is applied in turn.
func (h *CheckoutHandler) SetFields(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		handler.RespondError(w, r, domain.Errorf(domain.EINVALID, "storefront.CheckoutFields", "invalid request body"))
		return
	}

	s := h.session(w, r)
	for name, value := range fields {
		if err := s.Checkout.SetField(name, value); err != nil {
			handler.RespondError(w, r, err)
			return
		}
	}
	handler.RespondJSON(w, http.StatusOK, toStateResponse(s.Checkout))
}

// SetDeliveryMethod handles POST /api/checkout/delivery-method.
func (h *CheckoutHandler) SetDeliveryMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.RespondError(w, r, domain.Errorf(domain.EINVALID, "storefront.CheckoutDelivery", "invalid request body"))
		return
	}

	s := h.session(w, r)
	if err := s.Checkout.SetDeliveryMethod(domain.DeliveryMethod(req.Method)); err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toStateResponse(s.Checkout))
}

// SetPaymentMethod handles POST /api/checkout/payment-method.
func (h *CheckoutHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.RespondError(w, r, domain.Errorf(domain.EINVALID, "storefront.CheckoutPayment", "invalid request body"))
		return
	}

	s := h.session(w, r)
	if err := s.Checkout.SetPaymentMethod(domain.PaymentMethod(req.Method)); err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toStateResponse(s.Checkout))
}

// Next handles POST /api/checkout/next. Validation failures return 400 with
// per-field messages; the machine stays on its current step.
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	from := s.Checkout.Step()
	if err := s.Checkout.Next(); err != nil {
		if h.metrics != nil {
			h.metrics.CheckoutRejected.WithLabelValues(from.String()).Inc()
		}
		handler.RespondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CheckoutStep.WithLabelValues(s.Checkout.Step().String()).Inc()
		if from == domain.StepContact {
			h.metrics.CartValue.Observe(float64(s.Cart.TotalPrice()))
		}
	}
	handler.RespondJSON(w, http.StatusOK, toStateResponse(s.Checkout))
}

// Back handles POST /api/checkout/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	s.Checkout.Back()
	handler.RespondJSON(w, http.StatusOK, toStateResponse(s.Checkout))
}

// Cancel handles POST /api/checkout/cancel. The draft is discarded; the cart
// is kept.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	s.Checkout.Cancel()

	if h.metrics != nil {
		h.metrics.CheckoutCanceled.Inc()
	}
	handler.RespondJSON(w, http.StatusOK, toStateResponse(s.Checkout))
}

type orderItemResponse struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Unit      string `json:"unit"`
}

type confirmResponse struct {
	OrderNumber         string              `json:"orderNumber"`
	Customer            customerResponse    `json:"customer"`
	Items               []orderItemResponse `json:"items"`
	Pricing             pricingResponse     `json:"pricing"`
	PaymentMethod       string              `json:"paymentMethod"`
	PaymentStatus       string              `json:"paymentStatus"`
	CreatedAt           string              `json:"createdAt"`
	WhatsAppURL         string              `json:"whatsappUrl"`
	PaymentRedirectURL  string              `json:"paymentRedirectUrl,omitempty"`
	PaymentInstructions string              `json:"paymentInstructions,omitempty"`
}

// Confirm handles POST /api/checkout/confirm. On success the cart is empty
// and the machine is reset; on a handoff failure the draft survives so the
// client can retry.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	result, err := s.Checkout.Confirm(r.Context())
	if err != nil {
		h.recordHandoffFailure(err)
		handler.RespondError(w, r, err)
		return
	}

	if h.metrics != nil {
		summary := result.Summary
		h.metrics.CheckoutCompleted.WithLabelValues(string(summary.PaymentMethod)).Inc()
		h.metrics.OrderValue.Observe(float64(summary.Pricing.FinalTotal))
		units := 0
		for _, item := range summary.Items {
			units += item.Quantity
		}
		h.metrics.OrderItemCount.Observe(float64(units))
		if summary.PaymentMethod == domain.PaymentMercadoPago {
			h.metrics.PaymentPreferences.WithLabelValues("ok").Inc()
		}
		h.metrics.NotificationsSent.WithLabelValues("ok").Inc()
	}

	items := make([]orderItemResponse, 0, len(result.Summary.Items))
	for _, item := range result.Summary.Items {
		items = append(items, orderItemResponse{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Unit:      item.Unit,
		})
	}

	handler.RespondJSON(w, http.StatusOK, confirmResponse{
		OrderNumber:         result.Summary.OrderNumber,
		Customer:            toCustomerResponse(result.Summary.Customer),
		Items:               items,
		Pricing:             toPricingResponse(result.Summary.Pricing),
		PaymentMethod:       string(result.Summary.PaymentMethod),
		PaymentStatus:       string(result.Summary.PaymentStatus),
		CreatedAt:           result.Summary.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		WhatsAppURL:         result.WhatsAppURL,
		PaymentRedirectURL:  result.PaymentRedirectURL,
		PaymentInstructions: result.PaymentInstructions,
	})
}

func (h *CheckoutHandler) recordHandoffFailure(err error) {
	if h.metrics == nil {
		return
	}
	var handoff *domain.HandoffError
	if !errors.As(err, &handoff) {
		return
	}
	switch handoff.Collaborator {
	case "payment":
		h.metrics.PaymentPreferences.WithLabelValues("error").Inc()
	case "notification":
		h.metrics.NotificationsSent.WithLabelValues("error").Inc()
	}
}
