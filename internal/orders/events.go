package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated = "OrderCreated"
	EventOrderReady   = "OrderReady"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID     string          `json:"order_id"`
	OrderType   OrderType       `json:"order_type"`
	QueueNumber int             `json:"queue_number"`
	TableNumber *string         `json:"table_number,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// OrderReadyPayload is what the kitchen/front-of-house displays consume.
type OrderReadyPayload struct {
	OrderID     string    `json:"order_id"`
	QueueNumber int       `json:"queue_number"`
	OrderType   OrderType `json:"order_type"`
	TableNumber *string   `json:"table_number,omitempty"`
	ReadyAt     time.Time `json:"ready_at"`
}
