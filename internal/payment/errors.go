package payment

import "errors"

var (
	// ErrMissingToken is returned when the provider is constructed without
	// an access token.
	ErrMissingToken = errors.New("payment: missing access token")

	// ErrEmptyOrder is returned when a preference is requested with no items.
	ErrEmptyOrder = errors.New("payment: order has no items")
)
