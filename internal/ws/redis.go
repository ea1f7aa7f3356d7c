package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/playmatatu/billiards/internal/tables"
	"github.com/redis/go-redis/v9"
)

// AdminRoom is the room of admin clients following events of every table on
// every server instance.
const AdminRoom = "admin:events"

// StartEventSubscriber relays everything published on the table events
// channel to the admin room.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; table event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, tables.EventsChannel)
	go relayMessages(ctx, pubsub, pubsub.Channel(), hub)
}

// relayMessages forwards messages from ch until ctx is cancelled or ch is
// closed, then closes sub.
func relayMessages(ctx context.Context, sub io.Closer, ch <-chan *redis.Message, hub *Hub) {
	defer sub.Close()
	log.Printf("[WS] %s subscriber started", tables.EventsChannel)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[WS] %s subscriber stopped", tables.EventsChannel)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			hub.relay([]byte(msg.Payload))
		}
	}
}

type relayHeader struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
}

// relay forwards a published payload to the admin room. It reports whether
// the payload was forwarded.
func (h *Hub) relay(payload []byte) bool {
	var head relayHeader
	if err := json.Unmarshal(payload, &head); err != nil {
		log.Printf("[WS] Invalid event payload: %v", err)
		return false
	}

	switch head.Type {
	case "table_event", "table_closed":
		if h.RoomSize(AdminRoom) == 0 {
			return false
		}
		h.broadcastRaw(AdminRoom, payload)
		return true
	default:
		log.Printf("[WS] Unknown event type: %s", head.Type)
		return false
	}
}
