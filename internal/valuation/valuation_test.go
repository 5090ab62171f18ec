package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedAverageCost(t *testing.T) {
	tests := []struct {
		name     string
		oldQty   float64
		oldAvg   float64
		inQty    float64
		inCost   float64
		expected float64
	}{
		{
			name:     "blends existing stock with receipt",
			oldQty:   100, oldAvg: 10.0, inQty: 50, inCost: 12.0,
			expected: (100*10.0 + 50*12.0) / 150,
		},
		{
			name:     "first receipt takes incoming cost exactly",
			oldQty:   0, oldAvg: 0, inQty: 100, inCost: 15.0,
			expected: 15.0,
		},
		{
			name:     "receipt at current avg leaves avg unchanged",
			oldQty:   40, oldAvg: 7.5, inQty: 60, inCost: 7.5,
			expected: 7.5,
		},
		{
			name:     "free receipt dilutes avg",
			oldQty:   10, oldAvg: 20.0, inQty: 10, inCost: 0,
			expected: 10.0,
		},
		{
			name:     "degenerate zero total falls back to incoming cost",
			oldQty:   0, oldAvg: 0, inQty: 0, inCost: 9.99,
			expected: 9.99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAverageCost(tt.oldQty, tt.oldAvg, tt.inQty, tt.inCost)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestInvoiceTotals(t *testing.T) {
	lines := []InvoiceLine{
		{UnitPrice: 15.0, Quantity: 30, CostBasis: 300.0},
	}

	totals := InvoiceTotals(lines, 0)
	assert.Equal(t, 450.0, totals.Subtotal)
	assert.Equal(t, 300.0, totals.TotalCost)
	assert.Equal(t, 450.0, totals.TotalAmount)
	assert.Equal(t, 150.0, totals.TotalProfit)
}

func TestInvoiceTotals_TaxOnTop(t *testing.T) {
	lines := []InvoiceLine{
		{UnitPrice: 10.0, Quantity: 5, CostBasis: 30.0},
		{UnitPrice: 4.0, Quantity: 2.5, CostBasis: 6.0},
	}

	totals := InvoiceTotals(lines, 11.4)
	assert.InDelta(t, 60.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 36.0, totals.TotalCost, 1e-9)
	assert.InDelta(t, 71.4, totals.TotalAmount, 1e-9)
	// Tax is not deducted from profit: total_amount - total_cost.
	assert.InDelta(t, 35.4, totals.TotalProfit, 1e-9)
}

func TestInvoiceTotals_Empty(t *testing.T) {
	totals := InvoiceTotals(nil, 0)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.TotalCost)
	assert.Zero(t, totals.TotalAmount)
	assert.Zero(t, totals.TotalProfit)
}
