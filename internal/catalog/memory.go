package catalog

import (
	"context"
	"sort"
	"strconv"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
)

// MemoryProvider serves a fixed product list from memory. Used for local
// development and tests when no database is configured.
type MemoryProvider struct {
	products []domain.Product
}

// NewMemoryProvider creates a provider over the given products.
func NewMemoryProvider(products []domain.Product) *MemoryProvider {
	return &MemoryProvider{products: products}
}

// NewSeededProvider creates a provider loaded with the shop's sample
// catalog.
func NewSeededProvider() *MemoryProvider {
	return NewMemoryProvider(seedProducts())
}

// ListProducts returns all active, publicly listed products.
func (p *MemoryProvider) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, prod := range p.products {
		if publiclyListed(prod) {
			out = append(out, prod)
		}
	}
	return out, nil
}

// ListByCategory returns active products in one category.
func (p *MemoryProvider) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, prod := range p.products {
		if prod.Active && prod.Category == category {
			out = append(out, prod)
		}
	}
	return out, nil
}

// GetProduct returns a single product by ID.
func (p *MemoryProvider) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	for _, prod := range p.products {
		if prod.ID == id {
			return prod, nil
		}
	}
	return domain.Product{}, domain.NotFound("catalog.get", "product", strconv.FormatInt(id, 10))
}

// Categories returns the distinct public categories, sorted.
func (p *MemoryProvider) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for _, prod := range p.products {
		if publiclyListed(prod) {
			seen[prod.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out, nil
}

// seedProducts is the sample catalog used when no database is configured.
func seedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          1,
			Name:        "Jamón Serrano",
			Description: "Jamón serrano de primera calidad, curado 18 meses",
			Price:       2850,
			Unit:        "kg",
			Category:    "jamones",
			Stock:       50,
			Active:      true,
		},
		{
			ID:          2,
			Name:        "Salame Milano",
			Description: "Salame tradicional italiano con especias selectas",
			Price:       1950,
			Unit:        "kg",
			Category:    "embutidos",
			Stock:       30,
			Active:      true,
		},
		{
			ID:          3,
			Name:        "Mortadela Italiana",
			Description: "Mortadela con pistachos, sabor auténtico italiano",
			Price:       1200,
			Unit:        "kg",
			Category:    "embutidos",
			Stock:       25,
			Active:      true,
		},
		{
			ID:          4,
			Name:        "Queso Provolone",
			Description: "Queso provolone estacionado, ideal para picadas",
			Price:       1800,
			Unit:        "kg",
			Category:    "quesos",
			Stock:       40,
			Active:      true,
		},
		{
			ID:          5,
			Name:        "Bondiola Curada",
			Description: "Bondiola artesanal curada en sal y especias",
			Price:       2400,
			Unit:        "kg",
			Category:    "fiambres",
			Stock:       20,
			Active:      true,
		},
		{
			ID:          6,
			Name:        "Picada Mayorista",
			Description: "Caja mayorista surtida",
			Price:       12000,
			Unit:        "caja",
			Category:    CategoryWholesale,
			Stock:       10,
			Active:      true,
		},
	}
}
