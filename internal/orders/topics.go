package orders

const (
	TopicOrderCreated = "order.created"
	TopicOrderReady   = "order.ready"
)

// Redis Pub/Sub channel the display clients subscribe to.
const BroadcastChannel = "orders"

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
