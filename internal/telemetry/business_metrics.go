// Package telemetry holds business-level Prometheus metrics for the
// storefront: cart activity, the checkout funnel, and order handoffs.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Product engagement
	ProductViews     *prometheus.CounterVec
	ProductAddToCart *prometheus.CounterVec

	// Cart
	CartUpdated *prometheus.CounterVec
	CartCleared prometheus.Counter
	CartValue   prometheus.Histogram

	// Checkout funnel
	CheckoutStep      *prometheus.CounterVec
	CheckoutRejected  *prometheus.CounterVec
	CheckoutCanceled  prometheus.Counter
	CheckoutCompleted *prometheus.CounterVec

	// Orders
	OrderValue     prometheus.Histogram
	OrderItemCount prometheus.Histogram

	// Handoffs
	PaymentPreferences *prometheus.CounterVec
	NotificationsSent  *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "lapicada"
	}

	subsystem := "business"

	return &BusinessMetrics{
		ProductViews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total product detail views",
			},
			[]string{"category"},
		),
		ProductAddToCart: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_add_to_cart_total",
				Help:      "Total add to cart actions",
			},
			[]string{"product_id"},
		),
		CartUpdated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_updated_total",
				Help:      "Total cart mutations by action",
			},
			[]string{"action"}, // action: add, update, remove
		),
		CartCleared: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total carts emptied explicitly",
			},
		),
		CartValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_pesos",
				Help:      "Cart subtotal at checkout start, in pesos",
				Buckets:   []float64{1000, 2500, 5000, 10000, 15000, 25000, 50000},
			},
		),
		CheckoutStep: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_step_total",
				Help:      "Checkout step transitions by step name",
			},
			[]string{"step"},
		),
		CheckoutRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_rejected_total",
				Help:      "Checkout advances rejected by validation, per step",
			},
			[]string{"step"},
		),
		CheckoutCanceled: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_canceled_total",
				Help:      "Checkouts abandoned via explicit cancel",
			},
		),
		CheckoutCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_completed_total",
				Help:      "Orders confirmed, by payment method",
			},
			[]string{"payment_method"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_pesos",
				Help:      "Final order totals in pesos",
				Buckets:   []float64{1000, 2500, 5000, 10000, 15000, 25000, 50000},
			},
		),
		OrderItemCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of units per confirmed order",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
		PaymentPreferences: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_preferences_total",
				Help:      "Mercado Pago preference creations by outcome",
			},
			[]string{"outcome"}, // outcome: ok, error
		),
		NotificationsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_sent_total",
				Help:      "Order notifications by outcome",
			},
			[]string{"outcome"}, // outcome: ok, error
		),
	}
}
