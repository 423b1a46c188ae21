package core

// Summary holds the derived totals for a draft. Derived values are always
// recomputed from the current item list, never stored.
type Summary struct {
	Subtotal   Money
	GrandTotal Money
}

// Totals sums quantity×price over the item list in a single pass. The
// grand total equals the subtotal: there is no tax or discount line.
func Totals(items []LineItem) Summary {
	var sub int64
	for _, li := range items {
		sub += li.Quantity * li.Price.Cents
	}
	return Summary{
		Subtotal:   Money{Cents: sub},
		GrandTotal: Money{Cents: sub},
	}
}

// Totals is a convenience over the package-level function.
func (d Draft) Totals() Summary {
	return Totals(d.Items)
}
