package receipt

import (
	"strings"
	"testing"

	"github.com/noah-isme/kasir-api/internal/catalog"
)

func TestPrintSingleItem(t *testing.T) {
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	r := New()
	r.AddProduct(toothbrush, 1, 0.99, 0.99)

	got := Printer{Columns: 40}.Print(r)
	want := "toothbrush                          0.99\n" +
		"\n" +
		"Total:                              0.99\n"
	if got != want {
		t.Fatalf("unexpected receipt:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrintQuantityLineForMultipleUnits(t *testing.T) {
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	r := New()
	r.AddProduct(toothbrush, 2, 0.99, 1.98)

	got := Printer{Columns: 40}.Print(r)
	if !strings.Contains(got, "  0.99 * 2\n") {
		t.Fatalf("expected a quantity line, got:\n%q", got)
	}
}

func TestPrintWeightedQuantityThreeDecimals(t *testing.T) {
	apples := catalog.Product{Name: "apples", Unit: catalog.UnitKilo}
	r := New()
	r.AddProduct(apples, 0.5, 1.99, 0.995)

	got := Printer{Columns: 40}.Print(r)
	if !strings.Contains(got, "  1.99 * 0.500\n") {
		t.Fatalf("expected a weighted quantity line, got:\n%q", got)
	}
}

func TestPrintDiscountLines(t *testing.T) {
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	r := New()
	r.AddProduct(toothbrush, 3, 0.99, 2.97)
	r.AddDiscount(Discount{Product: &toothbrush, Description: "3 for 2", Amount: -0.99})
	r.AddDiscount(Discount{Description: "Coupon SAVE10 (-10%)", Amount: -0.198})

	got := Printer{Columns: 40}.Print(r)
	if !strings.Contains(got, "3 for 2(toothbrush)") {
		t.Fatalf("expected a product discount line, got:\n%q", got)
	}
	if !strings.Contains(got, "Coupon SAVE10 (-10%)") {
		t.Fatalf("expected a cart-wide discount line, got:\n%q", got)
	}
}

func TestPrintRespectsColumnWidth(t *testing.T) {
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	r := New()
	r.AddProduct(toothbrush, 1, 0.99, 0.99)

	got := Printer{Columns: 30}.Print(r)
	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		if line == "" || strings.HasPrefix(line, "  ") {
			continue
		}
		if len(line) != 30 {
			t.Fatalf("expected 30-column line, got %d: %q", len(line), line)
		}
	}
}

func TestTotalSumsItemsAndDiscounts(t *testing.T) {
	toothbrush := catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach}
	r := New()
	r.AddProduct(toothbrush, 3, 0.99, 2.97)
	r.AddDiscount(Discount{Product: &toothbrush, Description: "3 for 2", Amount: -0.99})

	if got := r.TotalPrice(); got != 2.97-0.99 {
		t.Fatalf("expected total %v, got %v", 2.97-0.99, got)
	}
}
