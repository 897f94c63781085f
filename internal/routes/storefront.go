// Package routes wires handlers onto the router.
package routes

import (
	"github.com/LucasAlvarez99/LA-PICADA/internal/handler/storefront"
	"github.com/LucasAlvarez99/LA-PICADA/internal/router"
)

// StorefrontDeps contains dependencies for storefront routes.
type StorefrontDeps struct {
	ProductHandler  *storefront.ProductHandler
	CartHandler     *storefront.CartHandler
	CheckoutHandler *storefront.CheckoutHandler
}

// RegisterStorefrontRoutes registers the customer-facing JSON API.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Catalog
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/{id}", deps.ProductHandler.Get)
	r.Get("/api/categories", deps.ProductHandler.Categories)

	// Shopping cart
	r.Get("/api/cart", deps.CartHandler.View)
	r.Post("/api/cart/items", deps.CartHandler.AddItem)
	r.Patch("/api/cart/items/{id}", deps.CartHandler.UpdateItem)
	r.Delete("/api/cart/items/{id}", deps.CartHandler.RemoveItem)
	r.Delete("/api/cart", deps.CartHandler.Clear)

	// Checkout flow
	r.Get("/api/checkout", deps.CheckoutHandler.View)
	r.Post("/api/checkout/fields", deps.CheckoutHandler.SetFields)
	r.Post("/api/checkout/delivery-method", deps.CheckoutHandler.SetDeliveryMethod)
	r.Post("/api/checkout/payment-method", deps.CheckoutHandler.SetPaymentMethod)
	r.Post("/api/checkout/next", deps.CheckoutHandler.Next)
	r.Post("/api/checkout/back", deps.CheckoutHandler.Back)
	r.Post("/api/checkout/cancel", deps.CheckoutHandler.Cancel)
	r.Post("/api/checkout/confirm", deps.CheckoutHandler.Confirm)
}
