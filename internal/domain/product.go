package domain

// Product is a catalog item as seen by the storefront core. The core only
// reads products; catalog administration lives elsewhere.
type Product struct {
	ID          int64
	Name        string
	Description string

	// Price is the unit price in whole currency units (ARS, no minor unit).
	Price int64

	// Unit is the label the price applies to (e.g., "kg", "unidad").
	Unit string

	ImageURL string
	Category string

	// Stock is the available quantity at the time the product was read.
	Stock int

	Active bool
}
