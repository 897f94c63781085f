// Package payment hands completed orders off to external payment channels.
// MercadoPago orders get a hosted-checkout redirect; bank transfers get
// inline instructions; cash on delivery needs no handoff at all.
package payment

import (
	"context"
)

// Provider creates hosted-checkout preferences for methods that require an
// external redirect.
type Provider interface {
	// CreatePreference registers the order with the payment provider and
	// returns the redirect target for the hosted checkout.
	CreatePreference(ctx context.Context, params PreferenceParams) (*Preference, error)
}

// PreferenceParams contains the order data the provider needs.
type PreferenceParams struct {
	// OrderNumber becomes the external reference on the provider side.
	OrderNumber string

	Items         []PreferenceItem
	CustomerEmail string
}

// PreferenceItem is one order line as sent to the provider.
type PreferenceItem struct {
	Title     string
	Quantity  int
	UnitPrice int64
}

// Preference is a created hosted-checkout session.
type Preference struct {
	// ID is the provider's preference identifier.
	ID string

	// InitPoint is the URL the customer is redirected to.
	InitPoint string
}
