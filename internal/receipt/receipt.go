package receipt

import "github.com/noah-isme/kasir-api/internal/catalog"

// Item is a priced cart line on the receipt.
type Item struct {
	Product    catalog.Product
	Quantity   float64
	Price      float64
	TotalPrice float64
}

// Discount is a negative adjustment applied to the receipt. Product is nil
// for cart-wide discounts (bundles, coupons, loyalty redemptions) that do not
// attach to a single product.
type Discount struct {
	Product     *catalog.Product
	Description string
	Amount      float64
}

// Receipt accumulates priced items and discounts for one checkout.
type Receipt struct {
	items     []Item
	discounts []Discount
}

// New constructs an empty receipt.
func New() *Receipt {
	return &Receipt{}
}

// AddProduct appends a priced line item.
func (r *Receipt) AddProduct(p catalog.Product, quantity, price, totalPrice float64) {
	r.items = append(r.items, Item{Product: p, Quantity: quantity, Price: price, TotalPrice: totalPrice})
}

// AddDiscount appends a discount record.
func (r *Receipt) AddDiscount(d Discount) {
	r.discounts = append(r.discounts, d)
}

// Items returns receipt items in the order they were added.
func (r *Receipt) Items() []Item {
	return r.items
}

// Discounts returns applied discounts in application order.
func (r *Receipt) Discounts() []Discount {
	return r.discounts
}

// TotalPrice is the sum of item totals plus discount amounts. Discount
// amounts are negative, so this is the final payable total.
func (r *Receipt) TotalPrice() float64 {
	var total float64
	for _, item := range r.items {
		total += item.TotalPrice
	}
	for _, d := range r.discounts {
		total += d.Amount
	}
	return total
}
