package cart

import (
	"testing"

	"github.com/noah-isme/kasir-api/internal/catalog"
)

func TestQuantitiesAccumulate(t *testing.T) {
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	apples := catalog.Product{Name: "apples", Unit: catalog.UnitKilo}

	c := New()
	c.AddItem(toothbrush)
	c.AddItemQuantity(apples, 1.5)
	c.AddItemQuantity(toothbrush, 2)

	quantities := c.Quantities()
	if quantities[toothbrush] != 3 {
		t.Fatalf("expected toothbrush quantity 3, got %v", quantities[toothbrush])
	}
	if quantities[apples] != 1.5 {
		t.Fatalf("expected apples quantity 1.5, got %v", quantities[apples])
	}
	if len(c.Lines()) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(c.Lines()))
	}
}

func TestDistinctProductsKeepsInsertionOrder(t *testing.T) {
	a := catalog.Product{Name: "a", Unit: catalog.UnitEach}
	b := catalog.Product{Name: "b", Unit: catalog.UnitEach}
	c := catalog.Product{Name: "c", Unit: catalog.UnitEach}

	cart := New()
	cart.AddItem(b)
	cart.AddItem(a)
	cart.AddItem(b)
	cart.AddItem(c)
	cart.AddItem(a)

	got := cart.DistinctProducts()
	want := []catalog.Product{b, a, c}
	if len(got) != len(want) {
		t.Fatalf("expected %d products, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v at index %d, got %v", want[i], i, got[i])
		}
	}
}
