package offer

import (
	"errors"
	"fmt"

	"github.com/noah-isme/kasir-api/internal/catalog"
	"github.com/noah-isme/kasir-api/internal/receipt"
)

// ErrUnregisteredKind is returned when no calculator handles an offer kind.
var ErrUnregisteredKind = errors.New("offer: unregistered offer kind")

// Kind tags a per-product promotional rule.
type Kind string

const (
	// KindThreeForTwo prices every complete set of three at two unit prices.
	KindThreeForTwo Kind = "three_for_two"
	// KindPercentDiscount takes a percentage off the product subtotal.
	KindPercentDiscount Kind = "percent_discount"
	// KindTwoForAmount prices every pair at a special amount.
	KindTwoForAmount Kind = "two_for_amount"
	// KindFiveForAmount prices every group of five at a special amount.
	KindFiveForAmount Kind = "five_for_amount"
)

// Offer binds a rule kind to a product. Argument meaning depends on the
// kind: percentage for percent_discount, special group price for the
// N-for-amount kinds, unused for three_for_two.
type Offer struct {
	Kind     Kind
	Product  catalog.Product
	Argument float64
}

// Calculator converts an offer into a discount for one product line.
// CalculateDiscount returns nil when the offer does not apply.
type Calculator interface {
	AppliesTo(quantity float64, o Offer) bool
	CalculateDiscount(p catalog.Product, quantity, unitPrice float64, o Offer) *receipt.Discount
}

// Registry dispatches offer kinds to calculators. Calculators are stateless
// and shared; registering an existing kind replaces the prior binding. This
// is the extension point for new offer kinds.
type Registry struct {
	calculators map[Kind]Calculator
}

// NewRegistry returns a registry with the four built-in calculators bound.
func NewRegistry() *Registry {
	return &Registry{calculators: map[Kind]Calculator{
		KindThreeForTwo:     ThreeForTwo{},
		KindPercentDiscount: PercentDiscount{},
		KindTwoForAmount:    GroupForAmount{Size: 2},
		KindFiveForAmount:   GroupForAmount{Size: 5},
	}}
}

// Register binds a calculator to a kind, replacing any prior binding.
func (r *Registry) Register(kind Kind, calc Calculator) {
	r.calculators[kind] = calc
}

// Get returns the calculator for the kind or ErrUnregisteredKind.
func (r *Registry) Get(kind Kind) (Calculator, error) {
	calc, ok := r.calculators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredKind, kind)
	}
	return calc, nil
}

// Kinds lists the registered offer kinds.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.calculators))
	for kind := range r.calculators {
		out = append(out, kind)
	}
	return out
}
