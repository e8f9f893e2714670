package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateOrderInputValidate(t *testing.T) {
	valid := CreateOrderInput{
		OrderType: TypeDineIn,
		Items:     []LineInput{{ProductID: 1, Quantity: 2}},
	}
	require.NoError(t, valid.validate())

	tests := []struct {
		name string
		in   CreateOrderInput
	}{
		{"bad order type", CreateOrderInput{OrderType: "delivery", Items: []LineInput{{ProductID: 1, Quantity: 1}}}},
		{"empty items", CreateOrderInput{OrderType: TypeTakeaway}},
		{"zero quantity", CreateOrderInput{OrderType: TypeTakeaway, Items: []LineInput{{ProductID: 1, Quantity: 0}}}},
		{"negative quantity", CreateOrderInput{OrderType: TypeTakeaway, Items: []LineInput{{ProductID: 1, Quantity: -3}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestQueueKey(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "queue:dine_in:2026-09-01", QueueKey(TypeDineIn, day))
	require.Equal(t, "queue:takeaway:2026-09-01", QueueKey(TypeTakeaway, day))
	// tipe berbeda tidak pernah share lock key
	require.NotEqual(t, QueueKey(TypeDineIn, day), QueueKey(TypeTakeaway, day))
}
