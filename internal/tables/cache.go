package tables

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/playmatatu/billiards/internal/game"
	"github.com/redis/go-redis/v9"
)

// EventsChannel is the Redis channel table events are published on.
const EventsChannel = "table_events"

var ErrNoSnapshot = errors.New("no cached snapshot")

// Cache keeps the latest state of each table in Redis and publishes table
// events. A Cache without a client is a no-op.
type Cache struct {
	rdb      *redis.Client
	ttl      time.Duration
	instance string // origin of published events
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, instance: "srv_" + generateToken(4)}
}

func stateKey(tableID string) string {
	return "table:" + tableID + ":state"
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Cache) SaveState(ctx context.Context, state TableState) error {
	if !c.enabled() {
		return nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal table state: %w", err)
	}
	return c.rdb.SetEx(ctx, stateKey(state.ID), data, c.ttl).Err()
}

// LoadState returns the last cached state of a table, or ErrNoSnapshot.
func (c *Cache) LoadState(ctx context.Context, tableID string) (*TableState, error) {
	if !c.enabled() {
		return nil, ErrNoSnapshot
	}
	data, err := c.rdb.Get(ctx, stateKey(tableID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load table state: %w", err)
	}
	var state TableState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode table state: %w", err)
	}
	state.Live = false
	return &state, nil
}

// PublishedEvent is the payload sent on EventsChannel for each game event.
type PublishedEvent struct {
	Type       string     `json:"type"`
	Origin     string     `json:"origin"`
	TableID    string     `json:"table_id"`
	ShotNumber int        `json:"shot_number"`
	Event      game.Event `json:"event"`
}

// PublishEvents sends each event to EventsChannel. Failures are logged.
func (c *Cache) PublishEvents(ctx context.Context, tableID string, shotNumbers []int, events []game.Event) {
	if !c.enabled() {
		return
	}
	for i, e := range events {
		b, err := json.Marshal(PublishedEvent{Type: "table_event", Origin: c.instance, TableID: tableID, ShotNumber: shotNumbers[i], Event: e})
		if err != nil {
			log.Printf("[REDIS] Failed to marshal %s event for table %s: %v", e.Type, tableID, err)
			continue
		}
		if err := c.rdb.Publish(ctx, EventsChannel, b).Err(); err != nil {
			log.Printf("[REDIS] Publish %s event for table %s failed: %v", e.Type, tableID, err)
		}
	}
}

// PublishClosed announces that a table was closed.
func (c *Cache) PublishClosed(ctx context.Context, tableID, reason string) {
	if !c.enabled() {
		return
	}
	b, _ := json.Marshal(map[string]interface{}{"type": "table_closed", "origin": c.instance, "table_id": tableID, "reason": reason})
	if n, err := c.rdb.Publish(ctx, EventsChannel, b).Result(); err != nil {
		log.Printf("[REDIS] Publish table_closed for %s failed: %v", tableID, err)
	} else {
		log.Printf("[REDIS] Published table_closed: table=%s subscribers=%d", tableID, n)
	}
}
