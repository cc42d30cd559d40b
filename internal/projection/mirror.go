// Package projection maintains a read-optimized copy of reservation
// state in Redis for staff dashboards: an append-only feed of changes
// plus a hash of the latest state per reservation. The mirror is a
// secondary store; writes are best-effort and never fail the booking
// that triggered them.
package projection

import (
    "context"
    "encoding/json"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

const (
    feedKey   = "reservations:feed"
    stateKey  = "reservations:state"
    feedLimit = 1000 // feed is trimmed so dashboards replay a bounded window
)

// entry is the JSON document stored per reservation change.
type entry struct {
    ReservationID uint64 `json:"reservation_id"`
    TableID       uint64 `json:"table_id"`
    SectionID     uint64 `json:"section_id"`
    UserID        uint64 `json:"user_id"`
    Guests        uint32 `json:"guests"`
    Date          string `json:"date"`
    TimeSlot      string `json:"time_slot"`
    Status        string `json:"status"`
    ChangedAt     string `json:"changed_at"`
}

// Mirror writes the reservation projection. A nil Redis client makes
// every method a silent no-op.
type Mirror struct {
    rdb *redis.Client
}

// NewMirror returns a Mirror over the given client, which may be nil.
func NewMirror(rdb *redis.Client) *Mirror { return &Mirror{rdb: rdb} }

// Record appends the reservation's current state to the feed and
// overwrites its latest-state hash field.
func (m *Mirror) Record(ctx context.Context, res *model.Reservation) error {
    if m.rdb == nil {
        return nil
    }
    body, err := json.Marshal(entry{
        ReservationID: res.ID,
        TableID:       res.TableID,
        SectionID:     res.SectionID,
        UserID:        res.UserID,
        Guests:        res.Guests,
        Date:          res.ReservationTime.Format("2006-01-02"),
        TimeSlot:      res.TimeSlot,
        Status:        res.Status,
        ChangedAt:     time.Now().UTC().Format(time.RFC3339),
    })
    if err != nil {
        return err
    }
    pipe := m.rdb.Pipeline()
    pipe.RPush(ctx, feedKey, body)
    pipe.LTrim(ctx, feedKey, -feedLimit, -1)
    pipe.HSet(ctx, stateKey, strconv.FormatUint(res.ID, 10), body)
    _, err = pipe.Exec(ctx)
    return err
}
