// Package notify delivers completed-order notifications to the shop
// operator. The checkout state machine hands off an OrderSummary and must
// see a definitive success or failure before it resets, so every Notifier
// returns the real outcome of the dispatch.
package notify

import (
	"context"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
)

// Notifier delivers a completed order to the operator channel.
type Notifier interface {
	// NotifyOrder sends the order notification. It blocks until the
	// dispatch outcome is known and returns any delivery failure.
	NotifyOrder(ctx context.Context, order domain.OrderSummary) error
}

// ShopInfo carries the fixed shop details rendered into notifications.
type ShopInfo struct {
	Name string

	// Address is the pickup location printed on pickup orders.
	Address string

	// WhatsAppPhone is the operator number in wa.me format
	// (country code, digits only, no plus sign).
	WhatsAppPhone string
}
