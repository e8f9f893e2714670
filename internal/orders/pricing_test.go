package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsNoDiscount(t *testing.T) {
	// 3 x 25000
	got := ComputeTotals(d(75000), decimal.Zero)

	require.True(t, got.Subtotal.Equal(d(75000)), "subtotal %s", got.Subtotal)
	require.True(t, got.Tax.Equal(d(8250)), "tax %s", got.Tax)
	require.True(t, got.Service.Equal(d(3750)), "service %s", got.Service)
	require.True(t, got.Discount.Equal(decimal.Zero))
	require.True(t, got.Total.Equal(d(87000)), "total %s", got.Total)
}

func TestComputeTotalsWithDiscount(t *testing.T) {
	// subtotal 75000, SAVE10 clamped to 5000
	got := ComputeTotals(d(75000), d(5000))
	require.True(t, got.Total.Equal(d(82000)), "total %s", got.Total)
}

func TestComputeTotalsClampsAtZero(t *testing.T) {
	got := ComputeTotals(d(1000), d(10000))
	require.True(t, got.Total.Equal(decimal.Zero), "total %s", got.Total)
}
