package notify

import (
	"context"
	"log/slog"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
)

// MockNotifier is an in-memory notifier for testing.
type MockNotifier struct {
	// NotifyOrderFunc allows customizing dispatch behavior.
	NotifyOrderFunc func(ctx context.Context, order domain.OrderSummary) error

	// Orders stores every order handed off, in call order.
	Orders []domain.OrderSummary
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyOrder records the order and returns the configured outcome.
func (m *MockNotifier) NotifyOrder(ctx context.Context, order domain.OrderSummary) error {
	m.Orders = append(m.Orders, order)
	if m.NotifyOrderFunc != nil {
		return m.NotifyOrderFunc(ctx, order)
	}
	return nil
}

// LogNotifier writes the formatted order message to the log instead of an
// external channel. Used in development when no SMTP server is configured.
type LogNotifier struct {
	shop   ShopInfo
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(shop ShopInfo, logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{shop: shop, logger: logger}
}

// NotifyOrder logs the order message. Never fails.
func (n *LogNotifier) NotifyOrder(ctx context.Context, order domain.OrderSummary) error {
	n.logger.Info("order notification",
		"order_number", order.OrderNumber,
		"message", FormatOrderMessage(order, n.shop),
	)
	return nil
}
