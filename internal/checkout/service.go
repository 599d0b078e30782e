package checkout

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/kasir-api/internal/bundle"
	"github.com/noah-isme/kasir-api/internal/cart"
	"github.com/noah-isme/kasir-api/internal/catalog"
	"github.com/noah-isme/kasir-api/internal/common"
	"github.com/noah-isme/kasir-api/internal/coupon"
	"github.com/noah-isme/kasir-api/internal/loyalty"
	"github.com/noah-isme/kasir-api/internal/obs"
	"github.com/noah-isme/kasir-api/internal/offer"
	"github.com/noah-isme/kasir-api/internal/receipt"
)

// Request carries the optional inputs for one checkout.
type Request struct {
	CouponCodes  []string
	CustomerID   string
	RedeemPoints int
}

// Outcome is the priced result. Loyalty is non-nil only when a customer id
// was supplied.
type Outcome struct {
	Receipt *receipt.Receipt
	Loyalty *loyalty.Result
}

// Service sequences every discount engine against one cart: priced items,
// per-product offers, bundles, coupons, then loyalty. Registries are shared
// mutable state across checkouts; callers embedding the service concurrently
// must serialize access.
type Service struct {
	Catalog     catalog.Catalog
	Calculators *offer.Registry
	Bundles     *bundle.Registry
	Coupons     *coupon.Registry
	Loyalty     *loyalty.Program
	Now         func() time.Time
	Logger      zerolog.Logger

	offers map[catalog.Product]offer.Offer
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Catalog     catalog.Catalog
	Calculators *offer.Registry
	Bundles     *bundle.Registry
	Coupons     *coupon.Registry
	Loyalty     *loyalty.Program
	Now         func() time.Time
	Logger      zerolog.Logger
}

// NewService constructs a Service, defaulting any registry left unset.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("checkout: catalog is required")
	}
	calculators := cfg.Calculators
	if calculators == nil {
		calculators = offer.NewRegistry()
	}
	bundles := cfg.Bundles
	if bundles == nil {
		bundles = bundle.NewRegistry()
	}
	coupons := cfg.Coupons
	if coupons == nil {
		coupons = coupon.NewRegistry()
	}
	program := cfg.Loyalty
	if program == nil {
		program = loyalty.NewProgram(1.0, 0.01)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		Catalog:     cfg.Catalog,
		Calculators: calculators,
		Bundles:     bundles,
		Coupons:     coupons,
		Loyalty:     program,
		Now:         now,
		Logger:      cfg.Logger,
		offers:      make(map[catalog.Product]offer.Offer),
	}, nil
}

// AddSpecialOffer registers a per-product offer. A product carries at most
// one offer; registering again replaces it.
func (s *Service) AddSpecialOffer(kind offer.Kind, p catalog.Product, argument float64) {
	s.offers[p] = offer.Offer{Kind: kind, Product: p, Argument: argument}
}

// RegisterBundle stores the bundle, overwriting by id.
func (s *Service) RegisterBundle(b bundle.Bundle) {
	s.Bundles.Register(b)
}

// RegisterCoupon stores the coupon, overwriting by code.
func (s *Service) RegisterCoupon(c *coupon.Coupon) {
	s.Coupons.Register(c)
}

// CreateLoyaltyAccount creates (or returns) the account for the customer.
func (s *Service) CreateLoyaltyAccount(customerID string) *loyalty.Account {
	return s.Loyalty.CreateAccount(customerID)
}

// LoyaltyAccount returns the account or nil when unknown.
func (s *Service) LoyaltyAccount(customerID string) *loyalty.Account {
	return s.Loyalty.Account(customerID)
}

// Checkout runs the full pricing pipeline. Per-item and per-rule failures
// are local: an unpriceable line or inapplicable coupon is skipped and the
// receipt is always returned complete.
func (s *Service) Checkout(c *cart.Cart, req Request) (Outcome, error) {
	if s == nil || s.Catalog == nil {
		return Outcome{}, common.NewAppError("INTERNAL", "checkout service not configured", http.StatusInternalServerError, nil)
	}

	rcpt := receipt.New()
	for _, line := range c.Lines() {
		unitPrice, err := s.Catalog.UnitPrice(line.Product)
		if err != nil {
			s.Logger.Warn().Str("product", line.Product.Name).Err(err).Msg("skip unpriced cart line")
			continue
		}
		rcpt.AddProduct(line.Product, line.Quantity, unitPrice, line.Quantity*unitPrice)
	}

	offersApplied := s.applyOffers(rcpt, c)
	countDiscounts("offer", offersApplied)

	bundleDiscounts := bundle.ComputeDiscounts(c.Quantities(), s.Catalog, s.Bundles)
	for _, d := range bundleDiscounts {
		rcpt.AddDiscount(d)
	}
	countDiscounts("bundle", len(bundleDiscounts))

	subtotal := s.subtotal(c)
	if len(req.CouponCodes) > 0 {
		// Coupons price against the raw pre-discount subtotal, not the
		// running receipt total.
		applied := s.Coupons.ApplyCodes(req.CouponCodes, subtotal, s.Now())
		for _, d := range applied {
			rcpt.AddDiscount(d)
		}
		countDiscounts("coupon", len(applied))
		countCouponAttempts(len(applied), len(req.CouponCodes)-len(applied))
	}

	var loyaltyResult *loyalty.Result
	if req.CustomerID != "" {
		result := s.Loyalty.ProcessTransaction(subtotal, req.CustomerID, req.RedeemPoints)
		if result.RedemptionDiscount != nil {
			rcpt.AddDiscount(*result.RedemptionDiscount)
			countDiscounts("loyalty", 1)
			countLoyaltyPoints("redeem", req.RedeemPoints)
		}
		countLoyaltyPoints("earn", result.PointsEarned)
		loyaltyResult = &result
	}

	return Outcome{Receipt: rcpt, Loyalty: loyaltyResult}, nil
}

// Metric helpers tolerate the collectors being unregistered (tests).

func countDiscounts(source string, n int) {
	if obs.DiscountsApplied == nil || n <= 0 {
		return
	}
	obs.DiscountsApplied.WithLabelValues(source).Add(float64(n))
}

func countCouponAttempts(applied, skipped int) {
	if obs.CouponRedemptionsTotal == nil {
		return
	}
	if applied > 0 {
		obs.CouponRedemptionsTotal.WithLabelValues("applied").Add(float64(applied))
	}
	if skipped > 0 {
		obs.CouponRedemptionsTotal.WithLabelValues("skipped").Add(float64(skipped))
	}
}

func countLoyaltyPoints(direction string, points int) {
	if obs.LoyaltyPointsTotal == nil || points <= 0 {
		return
	}
	obs.LoyaltyPointsTotal.WithLabelValues(direction).Add(float64(points))
}

// applyOffers dispatches each distinct cart product with a registered offer
// to its calculator. Unregistered kinds and unpriceable products skip that
// product only.
func (s *Service) applyOffers(rcpt *receipt.Receipt, c *cart.Cart) int {
	applied := 0
	quantities := c.Quantities()
	for _, p := range c.DistinctProducts() {
		o, ok := s.offers[p]
		if !ok {
			continue
		}
		calc, err := s.Calculators.Get(o.Kind)
		if err != nil {
			s.Logger.Error().Str("kind", string(o.Kind)).Err(err).Msg("offer kind has no calculator")
			continue
		}
		unitPrice, err := s.Catalog.UnitPrice(p)
		if err != nil {
			continue
		}
		if d := calc.CalculateDiscount(p, quantities[p], unitPrice, o); d != nil {
			rcpt.AddDiscount(*d)
			applied++
		}
	}
	return applied
}

// subtotal is the pre-discount sum over cart lines; the base for coupon and
// loyalty pricing.
func (s *Service) subtotal(c *cart.Cart) float64 {
	var total float64
	for p, quantity := range c.Quantities() {
		unitPrice, err := s.Catalog.UnitPrice(p)
		if err != nil {
			continue
		}
		total += quantity * unitPrice
	}
	return total
}
