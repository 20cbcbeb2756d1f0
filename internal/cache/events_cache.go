package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/geocoder89/eventpass/internal/domain/event"
	"github.com/redis/go-redis/v9"
)

const listKey = "events:list:v1"

// EventsCache is a read-through Redis cache for the public event listing.
// A nil *EventsCache is valid and disables caching everywhere.
type EventsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewEventsCache(addr string, ttl time.Duration) *EventsCache {
	if addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &EventsCache{rdb: rdb, ttl: ttl}
}

func (c *EventsCache) GetList(ctx context.Context) ([]event.Event, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, listKey).Bytes()
	if err != nil {
		return nil, false
	}

	var events []event.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		// poisoned entry, drop it
		_ = c.rdb.Del(ctx, listKey).Err()
		return nil, false
	}

	return events, true
}

func (c *EventsCache) SetList(ctx context.Context, events []event.Event) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(events)
	if err != nil {
		return
	}

	_ = c.rdb.Set(ctx, listKey, raw, c.ttl).Err()
}

// Invalidate drops the cached listing. Called after any event mutation,
// including seat reservations.
func (c *EventsCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, listKey).Err()
}

func (c *EventsCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *EventsCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
