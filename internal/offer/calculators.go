package offer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/noah-isme/kasir-api/internal/catalog"
	"github.com/noah-isme/kasir-api/internal/receipt"
)

// ThreeForTwo prices every complete set of three items at two unit prices.
type ThreeForTwo struct{}

// AppliesTo requires at least three whole items.
func (ThreeForTwo) AppliesTo(quantity float64, _ Offer) bool {
	return int(quantity) >= 3
}

// CalculateDiscount uses the truncated quantity for set counting but the
// original quantity for the full-price baseline; any fractional excess is
// present in both and cancels out.
func (c ThreeForTwo) CalculateDiscount(p catalog.Product, quantity, unitPrice float64, o Offer) *receipt.Discount {
	if !c.AppliesTo(quantity, o) {
		return nil
	}
	whole := int(quantity)
	sets := whole / 3
	remainder := whole % 3
	discounted := float64(sets*2)*unitPrice + float64(remainder)*unitPrice
	amount := quantity*unitPrice - discounted
	return &receipt.Discount{Product: &p, Description: "3 for 2", Amount: -amount}
}

// PercentDiscount takes the offer argument as a percentage off the line.
type PercentDiscount struct{}

// AppliesTo holds for any positive quantity.
func (PercentDiscount) AppliesTo(quantity float64, _ Offer) bool {
	return quantity > 0
}

// CalculateDiscount returns quantity x unit price x pct/100 as a reduction.
func (c PercentDiscount) CalculateDiscount(p catalog.Product, quantity, unitPrice float64, o Offer) *receipt.Discount {
	if !c.AppliesTo(quantity, o) {
		return nil
	}
	amount := quantity * unitPrice * o.Argument / 100.0
	description := formatNumber(o.Argument) + "% off"
	return &receipt.Discount{Product: &p, Description: description, Amount: -amount}
}

// GroupForAmount prices every group of Size items at the offer argument.
// It implements both the two-for-amount and five-for-amount rules.
type GroupForAmount struct {
	Size int
}

// AppliesTo requires at least one complete group of whole items.
func (c GroupForAmount) AppliesTo(quantity float64, _ Offer) bool {
	return int(quantity) >= c.Size
}

// CalculateDiscount prices complete groups at the special amount and the
// leftover whole items at the regular unit price. Same fractional-remainder
// cancellation as ThreeForTwo.
func (c GroupForAmount) CalculateDiscount(p catalog.Product, quantity, unitPrice float64, o Offer) *receipt.Discount {
	if !c.AppliesTo(quantity, o) {
		return nil
	}
	whole := int(quantity)
	groups := whole / c.Size
	singles := whole % c.Size
	discounted := float64(groups)*o.Argument + float64(singles)*unitPrice
	amount := quantity*unitPrice - discounted
	description := fmt.Sprintf("%d for %s", c.Size, formatNumber(o.Argument))
	return &receipt.Discount{Product: &p, Description: description, Amount: -amount}
}

// formatNumber drops trailing zeros so descriptions read "10% off" and
// "2 for 0.99" rather than "10.000000% off".
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
