package orders

import "math"

const (
	taxRate           = 0.08
	flatShipping      = 10.0
	freeShippingOver  = 100.0
)

// Totals is the computed money breakdown for an order.
type Totals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// ComputeTotals derives subtotal, tax, shipping, and total from priced line
// items. All amounts are rounded to cents; total is always the sum of the
// three components after rounding.
func ComputeTotals(items []Item) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.LineTotal
	}
	subtotal = roundCents(subtotal)

	tax := roundCents(subtotal * taxRate)

	shipping := flatShipping
	if subtotal >= freeShippingOver {
		shipping = 0
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    roundCents(subtotal + tax + shipping),
	}
}

// LineTotal prices a single line.
func LineTotal(unitPrice float64, quantity int) float64 {
	return roundCents(unitPrice * float64(quantity))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
