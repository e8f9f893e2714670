package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptrDec(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func ptrTime(t time.Time) *time.Time { return &t }

var promoNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluatePromoPercentWithCaps(t *testing.T) {
	// SAVE10: 10% off, min order 50000, capped at 5000
	p := Promotion{
		Code:        "SAVE10",
		Type:        PromoPercent,
		Value:       d(10),
		MinOrder:    d(50000),
		MaxDiscount: ptrDec(5000),
		IsActive:    true,
	}

	got, err := EvaluatePromo(p, d(75000), promoNow)
	require.NoError(t, err)
	// raw 7500 clamped to max_discount
	require.True(t, got.Equal(d(5000)), "got %s", got)
}

func TestEvaluatePromoPercentUncapped(t *testing.T) {
	p := Promotion{Code: "P20", Type: PromoPercent, Value: d(20), IsActive: true}

	got, err := EvaluatePromo(p, d(50000), promoNow)
	require.NoError(t, err)
	require.True(t, got.Equal(d(10000)), "got %s", got)
}

func TestEvaluatePromoFixed(t *testing.T) {
	p := Promotion{Code: "MINUS5K", Type: PromoFixed, Value: d(5000), IsActive: true}

	got, err := EvaluatePromo(p, d(30000), promoNow)
	require.NoError(t, err)
	require.True(t, got.Equal(d(5000)), "got %s", got)
}

func TestEvaluatePromoFixedClampedToSubtotal(t *testing.T) {
	// diskon tidak boleh melebihi subtotal
	p := Promotion{Code: "BIG", Type: PromoFixed, Value: d(100000), IsActive: true}

	got, err := EvaluatePromo(p, d(30000), promoNow)
	require.NoError(t, err)
	require.True(t, got.Equal(d(30000)), "got %s", got)
}

func TestEvaluatePromoWindow(t *testing.T) {
	tests := []struct {
		name     string
		startsAt *time.Time
		endsAt   *time.Time
		reason   PromoReason
	}{
		{"not yet valid", ptrTime(promoNow.Add(time.Hour)), nil, PromoNotYetValid},
		{"expired", nil, ptrTime(promoNow.Add(-time.Hour)), PromoExpired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Promotion{
				Code: "WINDOW", Type: PromoPercent, Value: d(10),
				StartsAt: tc.startsAt, EndsAt: tc.endsAt, IsActive: true,
			}
			_, err := EvaluatePromo(p, d(100000), promoNow)
			var perr *PromoError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tc.reason, perr.Reason)
		})
	}
}

func TestEvaluatePromoOpenEndedWindow(t *testing.T) {
	// absent bound = unbounded on that side
	p := Promotion{
		Code: "OPEN", Type: PromoPercent, Value: d(10),
		StartsAt: ptrTime(promoNow.Add(-time.Hour)),
		IsActive: true,
	}
	_, err := EvaluatePromo(p, d(100000), promoNow)
	require.NoError(t, err)
}

func TestEvaluatePromoMinimumNotMet(t *testing.T) {
	p := Promotion{
		Code: "SAVE10", Type: PromoPercent, Value: d(10),
		MinOrder: d(50000), IsActive: true,
	}
	_, err := EvaluatePromo(p, d(49999), promoNow)
	var perr *PromoError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, PromoMinimumNotMet, perr.Reason)
}

func TestEvaluatePromoDeterministic(t *testing.T) {
	p := Promotion{
		Code: "SAVE10", Type: PromoPercent, Value: d(10),
		MinOrder: d(50000), MaxDiscount: ptrDec(5000), IsActive: true,
	}
	a, err1 := EvaluatePromo(p, d(75000), promoNow)
	b, err2 := EvaluatePromo(p, d(75000), promoNow)
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.True(t, a.Equal(b))
}
