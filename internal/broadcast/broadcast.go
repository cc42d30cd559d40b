// Package broadcast carries real-time state change events to connected
// clients. Events are published to Redis pub/sub channels keyed by
// event name; dashboard processes subscribe to the channels they care
// about. The publisher is an explicit dependency injected into every
// component that emits events; there is no process-wide handle.
package broadcast

import (
    "context"
    "encoding/json"
    "log"

    "github.com/redis/go-redis/v9"
)

// Event names published by the core. Listeners subscribe to
// "events:<name>".
const (
    EventTableAvailable      = "table-available"
    EventUpdateTableStatus   = "update-table-status"
    EventPaymentStatusUpdate = "payment-status-updated"
    EventWaitlistUpdate      = "waitlist-update"
)

// Publisher fans an event out to connected listeners. Implementations
// must be safe for concurrent use. Publishing is best-effort: callers
// log the returned error and move on.
type Publisher interface {
    Publish(ctx context.Context, event string, payload any) error
}

// RedisPublisher publishes events over Redis pub/sub. A nil client
// degrades to a logged no-op so the core keeps working without Redis.
type RedisPublisher struct {
    rdb *redis.Client
}

// NewRedisPublisher returns a Publisher over the given client, which
// may be nil.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
    return &RedisPublisher{rdb: rdb}
}

// Publish marshals the payload as JSON and PUBLISHes it to the event's
// channel.
func (p *RedisPublisher) Publish(ctx context.Context, event string, payload any) error {
    if p.rdb == nil {
        log.Printf("broadcast: redis unavailable, dropping %s", event)
        return nil
    }
    body, err := json.Marshal(payload)
    if err != nil {
        return err
    }
    return p.rdb.Publish(ctx, "events:"+event, body).Err()
}
