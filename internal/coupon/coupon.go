package coupon

import (
	"fmt"
	"time"
)

// Kind enumerates coupon discount kinds.
type Kind string

const (
	// KindPercentage discounts a percentage of the cart subtotal.
	KindPercentage Kind = "percentage"
	// KindFixed discounts a fixed amount capped at the cart subtotal.
	KindFixed Kind = "fixed"
)

// Coupon is a code-activated discount with date and usage limits. The usage
// counter only ever increments, once per successful redemption.
type Coupon struct {
	Code        string
	Kind        Kind
	Value       float64
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	MaxUses     int
	MinPurchase float64
	Description string

	usageCount int
}

// New constructs a coupon. MaxUses below one is coerced to one and a missing
// description defaults to "Coupon <code>".
func New(code string, kind Kind, value float64) *Coupon {
	return &Coupon{
		Code:        code,
		Kind:        kind,
		Value:       value,
		MaxUses:     1,
		Description: "Coupon " + code,
	}
}

// UsageCount reports how many times the coupon has been redeemed.
func (c *Coupon) UsageCount() int {
	return c.usageCount
}

// IsValidOn checks the validity window. Both bounds are inclusive and
// compare calendar dates, not instants; an absent bound is unbounded.
func (c *Coupon) IsValidOn(date time.Time) bool {
	day := dateOnly(date)
	if c.ValidFrom != nil && day.Before(dateOnly(*c.ValidFrom)) {
		return false
	}
	if c.ValidUntil != nil && day.After(dateOnly(*c.ValidUntil)) {
		return false
	}
	return true
}

// HasUsesRemaining reports whether the redemption quota is not exhausted.
func (c *Coupon) HasUsesRemaining() bool {
	return c.usageCount < c.MaxUses
}

// MeetsMinimumPurchase checks the cart subtotal against the floor.
func (c *Coupon) MeetsMinimumPurchase(cartTotal float64) bool {
	return cartTotal >= c.MinPurchase
}

// CanBeApplied combines date validity, remaining uses, and minimum purchase.
func (c *Coupon) CanBeApplied(cartTotal float64, date time.Time) bool {
	return c.IsValidOn(date) && c.HasUsesRemaining() && c.MeetsMinimumPurchase(cartTotal)
}

// CalculateDiscount prices the coupon against the subtotal. A fixed coupon
// never discounts more than the subtotal. An unknown kind means a coupon was
// registered with a kind the engine does not implement; that is a
// data-integrity violation and panics rather than being swallowed.
func (c *Coupon) CalculateDiscount(cartTotal float64) float64 {
	switch c.Kind {
	case KindPercentage:
		return cartTotal * c.Value / 100.0
	case KindFixed:
		if c.Value > cartTotal {
			return cartTotal
		}
		return c.Value
	default:
		panic(fmt.Sprintf("coupon %s: unknown discount kind %q", c.Code, c.Kind))
	}
}

func (c *Coupon) redeem() {
	c.usageCount++
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
