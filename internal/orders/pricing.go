package orders

import "github.com/shopspring/decimal"

// Fixed policy rates (PB1 + service charge). Not configurable.
var (
	TaxRate     = decimal.NewFromFloat(0.11)
	ServiceRate = decimal.NewFromFloat(0.05)
)

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Service  decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives tax/service from the subtotal and applies the discount.
// Total is clamped at zero.
func ComputeTotals(subtotal, discount decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate).Round(2)
	service := subtotal.Mul(ServiceRate).Round(2)
	total := subtotal.Add(tax).Add(service).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Service:  service,
		Discount: discount,
		Total:    total,
	}
}
