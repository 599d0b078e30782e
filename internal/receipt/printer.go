package receipt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/kasir-api/internal/catalog"
)

// DefaultColumns is the printed receipt width when none is configured.
const DefaultColumns = 40

// Printer renders a receipt as fixed-width text.
type Printer struct {
	Columns int
}

// Print renders items, discounts, and the final total.
func (p Printer) Print(r *Receipt) string {
	var b strings.Builder
	for _, item := range r.Items() {
		b.WriteString(p.itemLines(item))
	}
	for _, d := range r.Discounts() {
		b.WriteString(p.discountLine(d))
	}
	b.WriteString("\n")
	b.WriteString(p.line("Total:", formatPrice(r.TotalPrice())))
	return b.String()
}

func (p Printer) itemLines(item Item) string {
	out := p.line(item.Product.Name, formatPrice(item.TotalPrice))
	if item.Quantity != 1 {
		out += fmt.Sprintf("  %s * %s\n", formatPrice(item.Price), formatQuantity(item.Product, item.Quantity))
	}
	return out
}

func (p Printer) discountLine(d Discount) string {
	name := d.Description
	if d.Product != nil {
		name = fmt.Sprintf("%s(%s)", d.Description, d.Product.Name)
	}
	return p.line(name, formatPrice(d.Amount))
}

// line lays out name and value on one row padded to the configured width.
func (p Printer) line(name, value string) string {
	columns := p.Columns
	if columns <= 0 {
		columns = DefaultColumns
	}
	width := columns - len(name) - len(value)
	if width < 1 {
		width = 1
	}
	return name + strings.Repeat(" ", width) + value + "\n"
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// formatQuantity prints whole numbers for discrete products and three
// decimals for weighted ones.
func formatQuantity(p catalog.Product, quantity float64) string {
	if p.Unit == catalog.UnitEach {
		return strconv.Itoa(int(quantity))
	}
	return fmt.Sprintf("%.3f", quantity)
}
