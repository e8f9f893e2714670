package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// EvaluatePromo is pure: no state is read or written, so it is safe to call
// speculatively and discard. The promotion row itself is looked up by the repo
// (code + is_active); a missing/inactive code surfaces as PromoNotFound there.
func EvaluatePromo(p Promotion, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return decimal.Zero, &PromoError{Code: p.Code, Reason: PromoNotYetValid}
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return decimal.Zero, &PromoError{Code: p.Code, Reason: PromoExpired}
	}
	if subtotal.LessThan(p.MinOrder) {
		return decimal.Zero, &PromoError{Code: p.Code, Reason: PromoMinimumNotMet}
	}

	var discount decimal.Decimal
	switch p.Type {
	case PromoPercent:
		discount = subtotal.Mul(p.Value).Div(oneHundred).Round(2)
	case PromoFixed:
		discount = p.Value
	default:
		return decimal.Zero, &PromoError{Code: p.Code, Reason: PromoNotFound}
	}

	if p.MaxDiscount != nil && discount.GreaterThan(*p.MaxDiscount) {
		discount = *p.MaxDiscount
	}
	// diskon tidak boleh melebihi subtotal (total never goes negative from promo)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount, nil
}
