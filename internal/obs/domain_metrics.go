package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts completed checkouts by outcome.
	CheckoutTotal *prometheus.CounterVec
	// DiscountsApplied counts discounts applied by source engine.
	DiscountsApplied *prometheus.CounterVec
	// CouponRedemptionsTotal counts coupon redemption attempts by result.
	CouponRedemptionsTotal *prometheus.CounterVec
	// LoyaltyPointsTotal accumulates points moved by direction (earn/redeem).
	LoyaltyPointsTotal *prometheus.CounterVec
	// CheckoutDuration records checkout handler latency in milliseconds.
	CheckoutDuration prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers the pricing-domain
// Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout requests by result.",
		}, []string{"result"}))
		DiscountsApplied = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discounts_applied_total",
			Help:      "Count of discounts applied, labelled by source engine.",
		}, []string{"source"}))
		CouponRedemptionsTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_redemptions_total",
			Help:      "Count of coupon redemption attempts by result.",
		}, []string{"result"}))
		LoyaltyPointsTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_points_total",
			Help:      "Loyalty points moved, labelled earn or redeem.",
		}, []string{"direction"}))
		histo := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_duration_ms",
			Help:      "Checkout handler latency in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		})
		if err := reg.Register(histo); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
					histo = existing
				}
			} else {
				panic(err)
			}
		}
		CheckoutDuration = histo
	})
}
