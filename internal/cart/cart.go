package cart

import "github.com/noah-isme/kasir-api/internal/catalog"

// Line is a single (product, quantity) entry in insertion order.
type Line struct {
	Product  catalog.Product
	Quantity float64
}

// Cart holds an ordered sequence of line entries. Adding the same product
// twice keeps both lines; aggregated quantities are derived on demand.
type Cart struct {
	lines []Line
}

// New constructs an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem appends one unit of the product.
func (c *Cart) AddItem(p catalog.Product) {
	c.AddItemQuantity(p, 1)
}

// AddItemQuantity appends a line with the given quantity.
func (c *Cart) AddItemQuantity(p catalog.Product, quantity float64) {
	c.lines = append(c.lines, Line{Product: p, Quantity: quantity})
}

// Lines returns the entries in the order they were added.
func (c *Cart) Lines() []Line {
	return c.lines
}

// Quantities aggregates line quantities per product.
func (c *Cart) Quantities() map[catalog.Product]float64 {
	out := make(map[catalog.Product]float64, len(c.lines))
	for _, line := range c.lines {
		out[line.Product] += line.Quantity
	}
	return out
}

// DistinctProducts returns each product once, keeping first-seen order.
// Map iteration is not deterministic, so pipeline stages that emit
// per-product discounts walk this slice instead of Quantities.
func (c *Cart) DistinctProducts() []catalog.Product {
	seen := make(map[catalog.Product]struct{}, len(c.lines))
	out := make([]catalog.Product, 0, len(c.lines))
	for _, line := range c.lines {
		if _, ok := seen[line.Product]; ok {
			continue
		}
		seen[line.Product] = struct{}{}
		out = append(out, line.Product)
	}
	return out
}
