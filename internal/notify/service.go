package notify

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/go-resto-pos.git/internal/kafka"
	"github.com/ariefcatur/go-resto-pos.git/internal/orders"
	"github.com/ariefcatur/go-resto-pos.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

// Service fans order.ready events out to the kitchen/front-of-house display
// channel. Delivery is fire-and-forget relative to the status transition: the
// transition already committed by the time the event reaches us.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// BroadcastMessage is the wire shape the display clients subscribe to.
type BroadcastMessage struct {
	Event string                   `json:"event"`
	Data  orders.OrderReadyPayload `json:"data"`
}

// HandleOrderReady dipasang sebagai handler consumer.
func (s *Service) HandleOrderReady(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderReady {
		return nil // ignore
	}

	// dedup via Redis (pakai event_id) supaya display tidak dipanggil dua kali
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderReadyPayload](env.Payload)
	if err != nil {
		return err
	}

	msg := kafkax.MustMarshal(BroadcastMessage{Event: "order.ready", Data: p})
	if err := redisx.Broadcast(ctx, s.Redis, orders.BroadcastChannel, msg); err != nil {
		// jangan gagalkan commit offset; event sudah dedup, log saja
		log.Error().Err(err).Str("order_id", p.OrderID).Msg("broadcast failed")
		return nil
	}

	log.Info().Str("order_id", p.OrderID).Int("queue_number", p.QueueNumber).
		Str("order_type", string(p.OrderType)).Msg("order ready broadcast")
	return nil
}
