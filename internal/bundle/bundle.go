package bundle

import (
	"fmt"

	"github.com/noah-isme/kasir-api/internal/catalog"
	"github.com/noah-isme/kasir-api/internal/receipt"
)

// Bundle discounts a fixed set of products when all of them are in the cart.
type Bundle struct {
	ID          string
	Percent     float64
	Description string

	products map[catalog.Product]struct{}
}

// New constructs a bundle. Duplicate products collapse into the set and a
// missing description defaults to "Bundle <id>".
func New(id string, products []catalog.Product, percent float64, description string) (Bundle, error) {
	if len(products) == 0 {
		return Bundle{}, fmt.Errorf("bundle %s: product set must not be empty", id)
	}
	if percent < 0 || percent > 100 {
		return Bundle{}, fmt.Errorf("bundle %s: percent must be within [0,100], got %v", id, percent)
	}
	set := make(map[catalog.Product]struct{}, len(products))
	for _, p := range products {
		set[p] = struct{}{}
	}
	if description == "" {
		description = "Bundle " + id
	}
	return Bundle{ID: id, Percent: percent, Description: description, products: set}, nil
}

// Products returns the required product set.
func (b Bundle) Products() map[catalog.Product]struct{} {
	return b.products
}

// ContainsAllProducts reports whether every required product appears among
// the cart's distinct products. Extra cart products never disqualify.
func (b Bundle) ContainsAllProducts(cartQuantities map[catalog.Product]float64) bool {
	for p := range b.products {
		if cartQuantities[p] <= 0 {
			return false
		}
	}
	return true
}

// Total sums quantity x unit price over exactly the required products that
// are present in the cart. Products the catalog cannot price are skipped.
func (b Bundle) Total(cartQuantities map[catalog.Product]float64, cat catalog.Catalog) float64 {
	var total float64
	for p := range b.products {
		quantity, ok := cartQuantities[p]
		if !ok {
			continue
		}
		unitPrice, err := cat.UnitPrice(p)
		if err != nil {
			continue
		}
		total += quantity * unitPrice
	}
	return total
}

// Registry is a keyed catalog of bundles; registering an existing id
// overwrites the prior entry.
type Registry struct {
	bundles map[string]Bundle
	order   []string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{bundles: make(map[string]Bundle)}
}

// Register stores the bundle under its id.
func (r *Registry) Register(b Bundle) {
	if _, ok := r.bundles[b.ID]; !ok {
		r.order = append(r.order, b.ID)
	}
	r.bundles[b.ID] = b
}

// Get returns the bundle and whether it exists.
func (r *Registry) Get(id string) (Bundle, bool) {
	b, ok := r.bundles[id]
	return b, ok
}

// All returns registered bundles in registration order.
func (r *Registry) All() []Bundle {
	out := make([]Bundle, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.bundles[id])
	}
	return out
}

// FindApplicable returns every bundle whose full product set is in the cart.
func (r *Registry) FindApplicable(cartQuantities map[catalog.Product]float64) []Bundle {
	var out []Bundle
	for _, b := range r.All() {
		if b.ContainsAllProducts(cartQuantities) {
			out = append(out, b)
		}
	}
	return out
}

// ComputeDiscounts emits one cart-wide discount per complete bundle.
// Bundles are evaluated independently; a product in several complete
// bundles is discounted by each. Partial bundles earn nothing.
func ComputeDiscounts(cartQuantities map[catalog.Product]float64, cat catalog.Catalog, registry *Registry) []receipt.Discount {
	var discounts []receipt.Discount
	for _, b := range registry.FindApplicable(cartQuantities) {
		total := b.Total(cartQuantities, cat)
		amount := total * b.Percent / 100.0
		discounts = append(discounts, receipt.Discount{
			Description: fmt.Sprintf("%s (-%v%%)", b.Description, b.Percent),
			Amount:      -amount,
		})
	}
	return discounts
}
