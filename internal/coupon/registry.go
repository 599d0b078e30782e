package coupon

import (
	"fmt"
	"time"

	"github.com/noah-isme/kasir-api/internal/receipt"
)

// Registry owns registered coupons and their redemption state, keyed by
// code. Registering an existing code overwrites the prior coupon together
// with its usage counter.
type Registry struct {
	coupons map[string]*Coupon
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{coupons: make(map[string]*Coupon)}
}

// Register stores the coupon under its code.
func (r *Registry) Register(c *Coupon) {
	if c.MaxUses < 1 {
		c.MaxUses = 1
	}
	if c.Description == "" {
		c.Description = "Coupon " + c.Code
	}
	r.coupons[c.Code] = c
}

// Get returns the coupon for the code, or nil when unknown.
func (r *Registry) Get(code string) *Coupon {
	return r.coupons[code]
}

// Apply atomically redeems one coupon against the subtotal: the discount is
// computed and the usage counter incremented only when every precondition
// holds. Unknown or inapplicable codes return nil with no mutation.
func (r *Registry) Apply(code string, cartTotal float64, date time.Time) *receipt.Discount {
	c := r.Get(code)
	if c == nil {
		return nil
	}
	if !c.CanBeApplied(cartTotal, date) {
		return nil
	}
	amount := c.CalculateDiscount(cartTotal)
	c.redeem()
	return &receipt.Discount{
		Description: describe(c),
		Amount:      -amount,
	}
}

// ApplyCodes evaluates each code independently, in the order supplied,
// against the same subtotal. Invalid codes are skipped.
func (r *Registry) ApplyCodes(codes []string, cartTotal float64, date time.Time) []receipt.Discount {
	var discounts []receipt.Discount
	for _, code := range codes {
		if d := r.Apply(code, cartTotal, date); d != nil {
			discounts = append(discounts, *d)
		}
	}
	return discounts
}

func describe(c *Coupon) string {
	if c.Kind == KindPercentage {
		return fmt.Sprintf("%s (-%v%%)", c.Description, c.Value)
	}
	return fmt.Sprintf("%s (-$%.2f)", c.Description, c.Value)
}
