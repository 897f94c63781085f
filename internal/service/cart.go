package service

import (
	"strconv"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
)

// LineItem pairs a product with the quantity in the cart. StockAtAdd is the
// stock value captured when the product entered the cart; all later bounds
// checks run against this snapshot, never against the live catalog.
type LineItem struct {
	Product    domain.Product
	Quantity   int
	StockAtAdd int
}

// Subtotal returns price × quantity for this line.
func (li LineItem) Subtotal() int64 {
	return li.Product.Price * int64(li.Quantity)
}

// Cart holds the line items for one visitor session, keyed by product ID
// with insertion order preserved for display. It is owned by a single
// session and mutated by a single actor; it does no locking of its own.
type Cart struct {
	items map[int64]*LineItem
	order []int64
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{
		items: make(map[int64]*LineItem),
	}
}

// AddItem adds quantity units of product to the cart. If the product is
// already present the quantities merge. Fails with a StockError when the
// requested (or combined) quantity exceeds the stock snapshot; the cart is
// left unchanged on failure.
func (c *Cart) AddItem(product domain.Product, quantity int) error {
	if quantity < 1 {
		return domain.Errorf(domain.EINVALID, "cart.add", "quantity must be at least 1")
	}

	if existing, ok := c.items[product.ID]; ok {
		combined := existing.Quantity + quantity
		if combined > existing.StockAtAdd {
			return &domain.StockError{
				ProductID:   product.ID,
				ProductName: existing.Product.Name,
				Requested:   combined,
				Available:   existing.StockAtAdd,
			}
		}
		existing.Quantity = combined
		return nil
	}

	if quantity > product.Stock {
		return &domain.StockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Stock,
		}
	}

	c.items[product.ID] = &LineItem{
		Product:    product,
		Quantity:   quantity,
		StockAtAdd: product.Stock,
	}
	c.order = append(c.order, product.ID)
	return nil
}

// UpdateQuantity sets the quantity for a product already in the cart.
// A quantity of zero or less removes the line item. The new quantity is
// validated against the stock snapshot captured at add time.
func (c *Cart) UpdateQuantity(productID int64, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return nil
	}

	item, ok := c.items[productID]
	if !ok {
		return domain.NotFound("cart.update", "cart item", strconv.FormatInt(productID, 10))
	}

	if quantity > item.StockAtAdd {
		return &domain.StockError{
			ProductID:   productID,
			ProductName: item.Product.Name,
			Requested:   quantity,
			Available:   item.StockAtAdd,
		}
	}

	item.Quantity = quantity
	return nil
}

// RemoveItem removes the line item for productID. Removing an absent
// product is a no-op, not an error.
func (c *Cart) RemoveItem(productID int64) {
	if _, ok := c.items[productID]; !ok {
		return
	}
	delete(c.items, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart. Idempotent.
func (c *Cart) Clear() {
	c.items = make(map[int64]*LineItem)
	c.order = nil
}

// Items returns the line items in insertion order.
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, *c.items[id])
	}
	return items
}

// TotalItems returns the sum of all line quantities.
func (c *Cart) TotalItems() int {
	var total int
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price × quantity across all line items.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}
