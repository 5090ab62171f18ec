// Package valuation holds the pure cost computations of the inventory engine:
// weighted-average-cost recalculation on receipt and sales invoice totals.
// No I/O, no rounding; callers round only for display, never for storage.
package valuation

// WeightedAverageCost blends the cost of stock already on hand with an
// incoming receipt:
//
//	newAvg = (oldQty*oldAvg + inQty*inCost) / (oldQty + inQty)
//
// The zero-total guard covers the degenerate empty-plus-empty case; with the
// positive-incoming-quantity precondition enforced by the operations it is
// unreachable, but a silent NaN here would corrupt the cost basis of every
// later sale.
func WeightedAverageCost(oldQty, oldAvg, inQty, inCost float64) float64 {
	total := oldQty + inQty
	if total <= 0 {
		return inCost
	}
	return (oldQty*oldAvg + inQty*inCost) / total
}

// InvoiceLine is the pricing view of one sales line.
type InvoiceLine struct {
	UnitPrice float64
	Quantity  float64
	CostBasis float64
}

// Totals aggregates an invoice. TotalProfit is taken against TotalAmount, not
// Subtotal: tax is collected on top of the sale and the cost basis is
// unaffected by it.
type Totals struct {
	Subtotal    float64
	TotalCost   float64
	TotalAmount float64
	TotalProfit float64
}

// InvoiceTotals derives the stored invoice aggregates from its lines and a
// flat tax amount.
func InvoiceTotals(lines []InvoiceLine, taxAmount float64) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.UnitPrice * l.Quantity
		t.TotalCost += l.CostBasis
	}
	t.TotalAmount = t.Subtotal + taxAmount
	t.TotalProfit = t.TotalAmount - t.TotalCost
	return t
}
