// Package pricing derives sale totals. It is pure: no state, no I/O.
package pricing

import "github.com/shopspring/decimal"

// Line is one priced cart line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

// Total returns the line's extended price.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Totals is the result of a computation.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute derives subtotal, tax and total for the given lines.
//
//	subtotal = Σ unitPrice × quantity
//	tax      = subtotal × rate, rounded to 2 decimal places
//	total    = subtotal + tax − discount
//
// A discount larger than subtotal+tax is accepted as given and drives the
// total negative; rejecting that is the caller's policy decision, not ours.
func Compute(lines []Line, discount, rate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	tax := subtotal.Mul(rate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}
