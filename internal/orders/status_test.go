package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusProcessing, StatusReady, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusReady, StatusCompleted, true},
		{StatusReady, StatusCancelled, true},
		{StatusProcessing, StatusCompleted, false},
		{StatusReady, StatusProcessing, false},
		{StatusCompleted, StatusReady, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCompleted, StatusCancelled, false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusProcessing, StatusReady, StatusCompleted, StatusCancelled} {
		require.True(t, ValidStatus(s))
	}
	// free-form strings are rejected, bukan diterima seperti sistem lama
	require.False(t, ValidStatus(Status("Sedang Diproses")))
	require.False(t, ValidStatus(Status("")))
}

func TestTerminal(t *testing.T) {
	require.True(t, StatusCompleted.Terminal())
	require.True(t, StatusCancelled.Terminal())
	require.False(t, StatusProcessing.Terminal())
	require.False(t, StatusReady.Terminal())
}
