// Package catalog supplies product records to the storefront core.
// The core only reads; catalog administration happens elsewhere.
package catalog

import (
	"context"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
)

// Reserved categories excluded from the public storefront listing.
const (
	CategoryWholesale = "mayorista"
	CategoryPromo     = "promo"
)

// Provider reads product records for the storefront.
type Provider interface {
	// ListProducts returns all active, publicly listed products.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// ListByCategory returns active products in one category.
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)

	// GetProduct returns a single product by ID, active or not.
	GetProduct(ctx context.Context, id int64) (domain.Product, error)

	// Categories returns the distinct categories of publicly listed
	// products, excluding the reserved wholesale/promo tags.
	Categories(ctx context.Context) ([]string, error)
}

// publiclyListed reports whether a product belongs in the storefront grid.
func publiclyListed(p domain.Product) bool {
	return p.Active && p.Category != CategoryWholesale && p.Category != CategoryPromo
}
