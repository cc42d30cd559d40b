// Package waitlist reconciles pending waitlist entries against live
// table availability. A single background loop wakes on a fixed
// interval, matches WAITING entries to now-free tables of a suitable
// size and notifies each matched guest exactly once. The same loop
// also sends the day-of reminder for confirmed reservations.
package waitlist

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/broadcast"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/notify"
)

// EntryStore is the waitlist persistence surface. Implemented by
// repository.WaitlistRepo.
type EntryStore interface {
    ListWaiting(ctx context.Context) ([]model.WaitlistEntry, error)
    MarkNotified(ctx context.Context, id uint64) (bool, error)
}

// ReservationSource supplies the reservation data the matcher needs.
// Implemented by repository.ReservationRepo.
type ReservationSource interface {
    ActiveTableIDs(ctx context.Context, date time.Time, timeSlot string) ([]uint64, error)
    UnremindedOn(ctx context.Context, date time.Time) ([]model.Reservation, error)
    MarkReminded(ctx context.Context, id uint64) (bool, error)
}

// TableSource lists candidate tables by seat count. Implemented by
// repository.TableRepo.
type TableSource interface {
    ListBySeats(ctx context.Context, seats []uint32) ([]model.Table, error)
}

// Matcher is the scheduled reconciliation loop.
type Matcher struct {
    entries      EntryStore
    reservations ReservationSource
    tables       TableSource
    notifier     notify.Sender
    publisher    broadcast.Publisher

    Interval time.Duration
    now      func() time.Time // injected for tests
}

// New wires a Matcher with the default 5 minute interval.
func New(entries EntryStore, reservations ReservationSource, tables TableSource,
    notifier notify.Sender, publisher broadcast.Publisher) *Matcher {
    return &Matcher{
        entries:      entries,
        reservations: reservations,
        tables:       tables,
        notifier:     notifier,
        publisher:    publisher,
        Interval:     5 * time.Minute,
        now:          time.Now,
    }
}

// Run ticks until the context is cancelled. The first pass runs
// immediately rather than one interval in.
func (m *Matcher) Run(ctx context.Context) error {
    t := time.NewTicker(m.Interval)
    defer t.Stop()

    // kick immediately
    m.tick(ctx)

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-t.C:
            m.tick(ctx)
        }
    }
}

// tick runs one reconciliation pass. Every step is idempotent, so an
// overlapping or repeated pass cannot double-notify.
func (m *Matcher) tick(ctx context.Context) {
    m.matchWaiting(ctx)
    m.sendReminders(ctx)
}

// capacityClass maps a party size to the seat counts worth offering:
// singles get a two-top, parties under four a two- or four-top, and
// larger parties a four- or six-top.
func capacityClass(guests uint32) []uint32 {
    switch {
    case guests < 2:
        return []uint32{2}
    case guests < 4:
        return []uint32{2, 4}
    default:
        return []uint32{4, 6}
    }
}

// matchWaiting scans WAITING entries and notifies those a free table
// exists for. One entry's failure never aborts the rest of the batch.
func (m *Matcher) matchWaiting(ctx context.Context) {
    waiting, err := m.entries.ListWaiting(ctx)
    if err != nil {
        log.Printf("waitlist-matcher: list waiting failed: %v", err)
        return
    }
    for i := range waiting {
        if err := m.matchEntry(ctx, &waiting[i]); err != nil {
            log.Printf("waitlist-matcher: entry %d: %v", waiting[i].ID, err)
        }
    }
}

func (m *Matcher) matchEntry(ctx context.Context, e *model.WaitlistEntry) error {
    excluded, err := m.reservations.ActiveTableIDs(ctx, e.Date, e.TimeSlot)
    if err != nil {
        return fmt.Errorf("load excluded tables: %w", err)
    }
    excludedSet := make(map[uint64]struct{}, len(excluded))
    for _, id := range excluded {
        excludedSet[id] = struct{}{}
    }

    candidates, err := m.tables.ListBySeats(ctx, capacityClass(e.Guests))
    if err != nil {
        return fmt.Errorf("load candidate tables: %w", err)
    }
    var match *model.Table
    for i := range candidates {
        t := &candidates[i]
        if _, taken := excludedSet[t.ID]; taken {
            continue
        }
        if t.OverrideActiveOn(e.Date, m.now()) {
            continue
        }
        match = t
        break
    }
    if match == nil {
        return nil // stays WAITING for the next cycle
    }

    // The guarded transition is the exactly-once gate: only the caller
    // that flips WAITING->NOTIFIED sends the notification.
    won, err := m.entries.MarkNotified(ctx, e.ID)
    if err != nil {
        return fmt.Errorf("mark notified: %w", err)
    }
    if !won {
        return nil
    }

    if err := m.notifier.Send(ctx, notify.Notification{
        To:      e.Contact,
        Subject: "A table has opened up",
        Body: fmt.Sprintf("Good news %s: table %d (seats %d) is free for %s, slot %s. Book now to claim it.",
            e.Name, match.Number, match.Seats, e.Date.Format("Monday, 2 January 2006"), e.TimeSlot),
    }); err != nil {
        // The transition already happened; by contract we do not retry.
        log.Printf("waitlist-matcher: notify entry %d failed: %v", e.ID, err)
    }
    if err := m.publisher.Publish(ctx, broadcast.EventWaitlistUpdate, map[string]any{
        "entry_id": e.ID,
        "status":   model.WaitlistNotified,
    }); err != nil {
        log.Printf("waitlist-matcher: broadcast for entry %d failed: %v", e.ID, err)
    }
    return nil
}

// sendReminders delivers the day-of reminder for today's confirmed
// reservations. The notified flag on the reservation row keeps this
// exactly-once across runs.
func (m *Matcher) sendReminders(ctx context.Context) {
    today := m.now()
    due, err := m.reservations.UnremindedOn(ctx, today)
    if err != nil {
        log.Printf("waitlist-matcher: load reminders failed: %v", err)
        return
    }
    for i := range due {
        res := &due[i]
        won, err := m.reservations.MarkReminded(ctx, res.ID)
        if err != nil {
            log.Printf("waitlist-matcher: mark reminded %d failed: %v", res.ID, err)
            continue
        }
        if !won {
            continue
        }
        if err := m.notifier.Send(ctx, notify.Notification{
            Topic:   fmt.Sprintf("user.%d", res.UserID),
            Subject: "Reservation reminder",
            Body:    fmt.Sprintf("Your table is booked today for slot %s. See you soon!", res.TimeSlot),
        }); err != nil {
            log.Printf("waitlist-matcher: reminder for reservation %d failed: %v", res.ID, err)
        }
    }
}
