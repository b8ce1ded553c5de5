package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_FlatShipping(t *testing.T) {
	items := []Item{
		{ProductID: "p-1", Quantity: 2, UnitPrice: 9.5, LineTotal: LineTotal(9.5, 2)},
	}
	got := ComputeTotals(items)

	assert.Equal(t, 19.0, got.Subtotal)
	assert.Equal(t, 1.52, got.Tax)
	assert.Equal(t, 10.0, got.Shipping)
	assert.Equal(t, 30.52, got.Total)
}

func TestComputeTotals_FreeShippingOverThreshold(t *testing.T) {
	items := []Item{
		{ProductID: "p-1", Quantity: 1, UnitPrice: 120, LineTotal: LineTotal(120, 1)},
	}
	got := ComputeTotals(items)

	assert.Equal(t, 120.0, got.Subtotal)
	assert.Equal(t, 9.6, got.Tax)
	assert.Equal(t, 0.0, got.Shipping)
	assert.Equal(t, 129.6, got.Total)
}

func TestComputeTotals_RoundsToCents(t *testing.T) {
	items := []Item{
		{ProductID: "p-1", Quantity: 3, UnitPrice: 0.1, LineTotal: LineTotal(0.1, 3)},
	}
	got := ComputeTotals(items)

	assert.Equal(t, 0.3, got.Subtotal)
	assert.Equal(t, 0.02, got.Tax)
	assert.Equal(t, 10.32, got.Total)
}

func TestComputeTotals_TotalIsSumOfParts(t *testing.T) {
	cases := [][]Item{
		{{Quantity: 1, UnitPrice: 49.99, LineTotal: LineTotal(49.99, 1)}},
		{{Quantity: 4, UnitPrice: 25.00, LineTotal: LineTotal(25.00, 4)}},
		{
			{Quantity: 2, UnitPrice: 19.99, LineTotal: LineTotal(19.99, 2)},
			{Quantity: 1, UnitPrice: 5.01, LineTotal: LineTotal(5.01, 1)},
		},
	}
	for _, items := range cases {
		got := ComputeTotals(items)
		assert.InDelta(t, got.Subtotal+got.Tax+got.Shipping, got.Total, 0.001)
	}
}
