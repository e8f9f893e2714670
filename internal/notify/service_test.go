package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkax "github.com/ariefcatur/go-resto-pos.git/internal/kafka"
	"github.com/ariefcatur/go-resto-pos.git/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestHandleOrderReadyIgnoresOtherEvents(t *testing.T) {
	svc := &Service{ServiceName: "test-notifier"}

	env := orders.Envelope{
		EventID:   "ev-1",
		EventType: orders.EventOrderCreated,
		Payload:   json.RawMessage(`{}`),
	}
	// redis tidak pernah disentuh untuk event yang bukan order.ready
	err := svc.HandleOrderReady(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)})
	require.NoError(t, err)
}

func TestHandleOrderReadyRejectsBadJSON(t *testing.T) {
	svc := &Service{ServiceName: "test-notifier"}

	err := svc.HandleOrderReady(context.Background(), kafkago.Message{Value: []byte("not json")})
	require.Error(t, err)
}

func TestBroadcastMessageShape(t *testing.T) {
	readyAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	table := "T5"
	msg := BroadcastMessage{
		Event: "order.ready",
		Data: orders.OrderReadyPayload{
			OrderID:     "o-1",
			QueueNumber: 7,
			OrderType:   orders.TypeDineIn,
			TableNumber: &table,
			ReadyAt:     readyAt,
		},
	}

	b, err := json.Marshal(msg)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, "order.ready", got["event"])
	data := got["data"].(map[string]any)
	require.Equal(t, "o-1", data["order_id"])
	require.EqualValues(t, 7, data["queue_number"])
	require.Equal(t, "dine_in", data["order_type"])
	require.Equal(t, "T5", data["table_number"])
}
