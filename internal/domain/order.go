package domain

import "time"

// DeliveryMethod selects how the customer receives the order.
type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDelivery DeliveryMethod = "delivery"
)

// PaymentMethod is the closed set of payment options the shop accepts.
type PaymentMethod string

const (
	PaymentMercadoPago PaymentMethod = "mercadopago"
	PaymentTransfer    PaymentMethod = "transferencia"
	PaymentCash        PaymentMethod = "efectivo"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMercadoPago, PaymentTransfer, PaymentCash:
		return true
	}
	return false
}

// PaymentStatus tracks the payment state of a completed order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Customer holds the data collected during checkout.
// Address, City and PostalCode are required only for home delivery.
type Customer struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Notes      string

	DeliveryMethod DeliveryMethod

	// DeliveryTime is an optional preferred delivery window.
	DeliveryTime string
}

// PricingBreakdown is the monetary summary of an order.
// FinalTotal = Subtotal - Discount + DeliveryFee; never negative because
// the discount is derived as a fraction of the subtotal.
type PricingBreakdown struct {
	Subtotal    int64
	Discount    int64
	DeliveryFee int64
	FinalTotal  int64
}

// OrderItem is one line of an order summary, snapshotted at confirmation.
type OrderItem struct {
	Name      string
	Quantity  int
	UnitPrice int64
	Unit      string
}

// OrderSummary is the immutable snapshot produced when a checkout completes.
// A new checkout produces a new OrderSummary; existing ones are never mutated.
type OrderSummary struct {
	OrderNumber   string
	Customer      Customer
	Items         []OrderItem
	Pricing       PricingBreakdown
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}
