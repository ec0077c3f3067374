package domain

// CartLine is one product's entry in the cart. Quantity is always >= 1;
// a line that would drop to zero is removed instead.
type CartLine struct {
	ID       string
	Title    string
	Price    float64
	Quantity int
}

func (l CartLine) LineTotal() float64 {
	return float64(l.Quantity) * l.Price
}

// Totals are derived from the cart on every render and never stored.
type Totals struct {
	Quantity int
	Price    float64
}

func ComputeTotals(lines []CartLine) Totals {
	var t Totals
	for _, l := range lines {
		t.Quantity += l.Quantity
		t.Price += l.LineTotal()
	}
	return t
}
