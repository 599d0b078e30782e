package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProductUnknown is returned when a product has no registered price.
var ErrProductUnknown = errors.New("catalog: unknown product")

// Unit describes how a product is sold.
type Unit string

const (
	// UnitEach marks products sold in discrete units.
	UnitEach Unit = "each"
	// UnitKilo marks products sold by weight.
	UnitKilo Unit = "kilo"
)

// ParseUnit normalises a raw unit string, defaulting to each.
func ParseUnit(value string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(UnitEach):
		return UnitEach, nil
	case string(UnitKilo):
		return UnitKilo, nil
	default:
		return "", fmt.Errorf("catalog: invalid unit %q", value)
	}
}

// Product identifies an item for sale. Products compare by value and are
// used as map keys throughout the pricing pipeline.
type Product struct {
	Name string
	Unit Unit
}

// Catalog resolves unit prices for products.
type Catalog interface {
	UnitPrice(p Product) (float64, error)
}

// Store is an in-memory price catalog.
type Store struct {
	prices map[Product]float64
}

// NewStore constructs an empty catalog store.
func NewStore() *Store {
	return &Store{prices: make(map[Product]float64)}
}

// AddProduct registers or replaces the unit price for a product.
func (s *Store) AddProduct(p Product, unitPrice float64) {
	s.prices[p] = unitPrice
}

// UnitPrice returns the registered price, or ErrProductUnknown.
func (s *Store) UnitPrice(p Product) (float64, error) {
	price, ok := s.prices[p]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrProductUnknown, p.Name)
	}
	return price, nil
}

// Products returns every registered product.
func (s *Store) Products() []Product {
	out := make([]Product, 0, len(s.prices))
	for p := range s.prices {
		out = append(out, p)
	}
	return out
}
