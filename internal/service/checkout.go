package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
	"github.com/LucasAlvarez99/LA-PICADA/internal/notify"
	"github.com/LucasAlvarez99/LA-PICADA/internal/payment"
	"github.com/LucasAlvarez99/LA-PICADA/internal/pricing"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Permissive local phone format: digits with optional separators,
	// e.g. "11 1234-5678" or "+54 9 11 5868-3127".
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-().]{5,19}$`)
)

// Customer field names used in validation errors and the storefront API.
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldAddress       = "address"
	FieldCity          = "city"
	FieldPostalCode    = "postalCode"
	FieldNotes         = "notes"
	FieldDeliveryTime  = "deliveryTime"
	FieldPaymentMethod = "paymentMethod"
)

// CheckoutResult is everything the storefront needs after a successful
// confirmation: the immutable order summary plus the external handoff
// artifacts (operator WhatsApp link, payment redirect or instructions).
type CheckoutResult struct {
	Summary domain.OrderSummary

	// WhatsAppURL opens a chat with the operator, pre-loaded with the
	// order message.
	WhatsAppURL string

	// PaymentRedirectURL is set for methods with a hosted checkout
	// (mercadopago).
	PaymentRedirectURL string

	// PaymentInstructions is set for inline methods (bank transfer).
	PaymentInstructions string
}

// Checkout is the sequential checkout state machine for one visitor
// session: Contact → Delivery → Payment → Confirm. Forward transitions
// validate the current step's fields; Confirm produces the OrderSummary,
// awaits the external handoffs, and only then clears the cart and resets.
type Checkout struct {
	cart     *Cart
	notifier notify.Notifier
	payments payment.Provider
	shop     notify.ShopInfo
	bank     payment.BankAccount
	logger   *slog.Logger

	step          domain.CheckoutStep
	customer      domain.Customer
	paymentMethod domain.PaymentMethod
	fieldErrors   map[string]string
	deliveryFee   int64

	// seams for tests
	now            func() time.Time
	newOrderNumber func(time.Time) string
}

// NewCheckout creates a checkout over the given cart, starting at the
// contact step with delivery as the default method.
func NewCheckout(cart *Cart, notifier notify.Notifier, payments payment.Provider, shop notify.ShopInfo, logger *slog.Logger) *Checkout {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Checkout{
		cart:           cart,
		notifier:       notifier,
		payments:       payments,
		shop:           shop,
		bank:           payment.DefaultBankAccount,
		logger:         logger,
		now:            time.Now,
		newOrderNumber: OrderNumber,
	}
	c.reset()
	return c
}

// OrderNumber generates an order number: the shop prefix plus the trailing
// six digits of the unix-millisecond clock. Distinguishing within a short
// operational window, not globally unique.
func OrderNumber(t time.Time) string {
	ms := t.UnixMilli()
	return fmt.Sprintf("LP%06d", ms%1000000)
}

// reset returns the machine to its initial state with an empty draft.
func (c *Checkout) reset() {
	c.step = domain.StepContact
	c.customer = domain.Customer{DeliveryMethod: domain.DeliveryMethodDelivery}
	c.paymentMethod = ""
	c.fieldErrors = make(map[string]string)
	c.deliveryFee = 0
}

// Step returns the current checkout step.
func (c *Checkout) Step() domain.CheckoutStep {
	return c.step
}

// Customer returns the current customer draft.
func (c *Checkout) Customer() domain.Customer {
	return c.customer
}

// PaymentMethod returns the selected payment method, empty if none.
func (c *Checkout) PaymentMethod() domain.PaymentMethod {
	return c.paymentMethod
}

// FieldErrors returns a copy of the pending field-level errors.
func (c *Checkout) FieldErrors() map[string]string {
	errs := make(map[string]string, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		errs[k] = v
	}
	return errs
}

// DeliveryFee returns the fee computed for the current method and city.
func (c *Checkout) DeliveryFee() int64 {
	return c.deliveryFee
}

// Pricing returns the current monetary breakdown for the cart and draft.
func (c *Checkout) Pricing() domain.PricingBreakdown {
	subtotal := c.cart.TotalPrice()
	discount := pricing.Discount(subtotal, c.cart.TotalItems())
	return domain.PricingBreakdown{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: c.deliveryFee,
		FinalTotal:  subtotal - discount + c.deliveryFee,
	}
}

// SetField updates one customer draft field and clears that field's
// pending error; other fields' errors are untouched. Changing the city
// recomputes the delivery fee.
func (c *Checkout) SetField(field, value string) error {
	switch field {
	case FieldName:
		c.customer.Name = value
	case FieldEmail:
		c.customer.Email = value
	case FieldPhone:
		c.customer.Phone = value
	case FieldAddress:
		c.customer.Address = value
	case FieldCity:
		c.customer.City = value
		c.recomputeDeliveryFee()
	case FieldPostalCode:
		c.customer.PostalCode = value
	case FieldNotes:
		c.customer.Notes = value
	case FieldDeliveryTime:
		c.customer.DeliveryTime = value
	default:
		return domain.Errorf(domain.EINVALID, "checkout.set_field", "unknown field: %s", field)
	}

	delete(c.fieldErrors, field)
	return nil
}

// SetDeliveryMethod switches between pickup and delivery and recomputes
// the fee. Entered address fields are preserved either way, so switching
// back and forth loses nothing.
func (c *Checkout) SetDeliveryMethod(method domain.DeliveryMethod) error {
	if method != domain.DeliveryMethodPickup && method != domain.DeliveryMethodDelivery {
		return domain.Errorf(domain.EINVALID, "checkout.set_delivery", "unknown delivery method: %s", method)
	}
	c.customer.DeliveryMethod = method
	c.recomputeDeliveryFee()
	return nil
}

// SetPaymentMethod records the payment selection and clears its error.
func (c *Checkout) SetPaymentMethod(method domain.PaymentMethod) error {
	if !domain.ValidPaymentMethod(method) {
		return domain.Errorf(domain.EINVALID, "checkout.set_payment", "unknown payment method: %s", method)
	}
	c.paymentMethod = method
	delete(c.fieldErrors, FieldPaymentMethod)
	return nil
}

func (c *Checkout) recomputeDeliveryFee() {
	if c.customer.DeliveryMethod == domain.DeliveryMethodPickup {
		c.deliveryFee = 0
		return
	}
	c.deliveryFee = pricing.DeliveryFee(c.customer.City, c.cart.TotalPrice())
}

// Next validates the current step and advances to the following one.
// On validation failure the machine stays put and the per-field errors
// are available via FieldErrors.
func (c *Checkout) Next() error {
	switch c.step {
	case domain.StepContact:
		if errs := c.validateContact(); len(errs) > 0 {
			c.fieldErrors = errs
			return &domain.ValidationError{Op: "checkout.next", Fields: errs}
		}
		c.step = domain.StepDelivery
		c.recomputeDeliveryFee()
		return nil

	case domain.StepDelivery:
		if errs := c.validateDelivery(); len(errs) > 0 {
			c.fieldErrors = errs
			return &domain.ValidationError{Op: "checkout.next", Fields: errs}
		}
		c.step = domain.StepPayment
		return nil

	case domain.StepPayment:
		if !domain.ValidPaymentMethod(c.paymentMethod) {
			errs := map[string]string{FieldPaymentMethod: "Seleccioná un método de pago"}
			c.fieldErrors = errs
			return &domain.ValidationError{Op: "checkout.next", Fields: errs}
		}
		c.step = domain.StepConfirm
		return nil
	}

	return domain.Invalid("checkout.next", "already at the confirmation step")
}

// Back moves to the previous step and clears all pending field errors.
// Entered data is preserved. No-op at the contact step.
func (c *Checkout) Back() {
	if c.step > domain.StepContact {
		c.step--
	}
	c.fieldErrors = make(map[string]string)
}

// Cancel discards the whole draft and returns to the initial state.
func (c *Checkout) Cancel() {
	c.reset()
}

func (c *Checkout) validateContact() map[string]string {
	errs := make(map[string]string)
	if c.customer.Name == "" {
		errs[FieldName] = "Nombre es obligatorio"
	}
	switch {
	case c.customer.Email == "":
		errs[FieldEmail] = "Email es obligatorio"
	case !emailPattern.MatchString(c.customer.Email):
		errs[FieldEmail] = "Email inválido"
	}
	switch {
	case c.customer.Phone == "":
		errs[FieldPhone] = "Teléfono es obligatorio"
	case !phonePattern.MatchString(c.customer.Phone):
		errs[FieldPhone] = "Teléfono inválido"
	}
	return errs
}

func (c *Checkout) validateDelivery() map[string]string {
	errs := make(map[string]string)
	if c.customer.DeliveryMethod != domain.DeliveryMethodDelivery {
		return errs
	}
	if c.customer.Address == "" {
		errs[FieldAddress] = "Dirección es obligatoria para envío"
	}
	if c.customer.City == "" {
		errs[FieldCity] = "Ciudad es obligatoria para envío"
	}
	if c.customer.PostalCode == "" {
		errs[FieldPostalCode] = "Código postal es obligatorio"
	}
	return errs
}

// Confirm completes the checkout: it recomputes the final pricing,
// assembles the immutable order summary, and hands it off to the payment
// and notification collaborators. On handoff failure the machine stays at
// the confirmation step so Confirm can be retried without re-entering
// data; only on success is the cart cleared and the machine reset.
func (c *Checkout) Confirm(ctx context.Context) (*CheckoutResult, error) {
	if c.step != domain.StepConfirm {
		return nil, domain.Invalid("checkout.confirm", "checkout is not at the confirmation step")
	}
	if c.cart.IsEmpty() {
		return nil, domain.Invalid("checkout.confirm", "cart is empty")
	}

	c.recomputeDeliveryFee()
	breakdown := c.Pricing()

	createdAt := c.now()
	summary := domain.OrderSummary{
		OrderNumber:   c.newOrderNumber(createdAt),
		Customer:      c.customer,
		Items:         c.orderItems(),
		Pricing:       breakdown,
		PaymentMethod: c.paymentMethod,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     createdAt,
	}

	result := &CheckoutResult{Summary: summary}

	switch c.paymentMethod {
	case domain.PaymentMercadoPago:
		pref, err := c.payments.CreatePreference(ctx, payment.PreferenceParams{
			OrderNumber:   summary.OrderNumber,
			CustomerEmail: summary.Customer.Email,
			Items:         preferenceItems(summary.Items),
		})
		if err != nil {
			c.logger.Error("checkout: payment handoff failed",
				"order_number", summary.OrderNumber, "error", err)
			return nil, &domain.HandoffError{Collaborator: "payment", Err: err}
		}
		result.PaymentRedirectURL = pref.InitPoint

	case domain.PaymentTransfer:
		result.PaymentInstructions = payment.TransferInstructions(c.bank, breakdown.FinalTotal, summary.OrderNumber)
	}

	if err := c.notifier.NotifyOrder(ctx, summary); err != nil {
		c.logger.Error("checkout: notification handoff failed",
			"order_number", summary.OrderNumber, "error", err)
		return nil, &domain.HandoffError{Collaborator: "notification", Err: err}
	}

	result.WhatsAppURL = notify.WhatsAppURL(summary, c.shop)

	c.logger.Info("checkout: order confirmed",
		"order_number", summary.OrderNumber,
		"payment_method", summary.PaymentMethod,
		"final_total", breakdown.FinalTotal,
		"items", len(summary.Items),
	)

	c.cart.Clear()
	c.reset()

	return result, nil
}

func (c *Checkout) orderItems() []domain.OrderItem {
	lines := c.cart.Items()
	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			Unit:      line.Product.Unit,
		}
	}
	return items
}

func preferenceItems(items []domain.OrderItem) []payment.PreferenceItem {
	out := make([]payment.PreferenceItem, len(items))
	for i, item := range items {
		out[i] = payment.PreferenceItem{
			Title:     item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return out
}
