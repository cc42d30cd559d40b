package waitlist

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/notify"
)

type memEntries struct {
    mu   sync.Mutex
    rows map[uint64]*model.WaitlistEntry
}

func (m *memEntries) ListWaiting(context.Context) ([]model.WaitlistEntry, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    out := []model.WaitlistEntry{}
    for _, e := range m.rows {
        if e.Status == model.WaitlistWaiting {
            out = append(out, *e)
        }
    }
    return out, nil
}

func (m *memEntries) MarkNotified(_ context.Context, id uint64) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    e, ok := m.rows[id]
    if !ok || e.Status != model.WaitlistWaiting {
        return false, nil
    }
    e.Status = model.WaitlistNotified
    return true, nil
}

type memReservationSource struct {
    activeTables map[string][]uint64 // "date|slot" -> table ids
    unreminded   []model.Reservation
    reminded     map[uint64]bool
}

func rkey(date time.Time, slot string) string {
    return date.Format("2006-01-02") + "|" + slot
}

func (m *memReservationSource) ActiveTableIDs(_ context.Context, date time.Time, slot string) ([]uint64, error) {
    return m.activeTables[rkey(date, slot)], nil
}

func (m *memReservationSource) UnremindedOn(_ context.Context, _ time.Time) ([]model.Reservation, error) {
    out := []model.Reservation{}
    for _, r := range m.unreminded {
        if !m.reminded[r.ID] {
            out = append(out, r)
        }
    }
    return out, nil
}

func (m *memReservationSource) MarkReminded(_ context.Context, id uint64) (bool, error) {
    if m.reminded[id] {
        return false, nil
    }
    m.reminded[id] = true
    return true, nil
}

type memTableSource struct{ tables []model.Table }

func (m *memTableSource) ListBySeats(_ context.Context, seats []uint32) ([]model.Table, error) {
    want := map[uint32]bool{}
    for _, s := range seats {
        want[s] = true
    }
    out := []model.Table{}
    for _, t := range m.tables {
        if want[t.Seats] {
            out = append(out, t)
        }
    }
    return out, nil
}

type recordingSender struct {
    mu   sync.Mutex
    sent []notify.Notification
    fail map[string]bool // recipients that error
}

func (r *recordingSender) Send(_ context.Context, n notify.Notification) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.fail[n.To] {
        return errors.New("smtp down")
    }
    r.sent = append(r.sent, n)
    return nil
}

type recordingPublisher struct {
    mu     sync.Mutex
    events []string
}

func (r *recordingPublisher) Publish(_ context.Context, event string, _ any) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.events = append(r.events, event)
    return nil
}

var (
    matchDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
    matchNow  = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newTestMatcher() (*Matcher, *memEntries, *memReservationSource, *memTableSource, *recordingSender, *recordingPublisher) {
    entries := &memEntries{rows: map[uint64]*model.WaitlistEntry{}}
    reservations := &memReservationSource{activeTables: map[string][]uint64{}, reminded: map[uint64]bool{}}
    tables := &memTableSource{}
    sender := &recordingSender{fail: map[string]bool{}}
    pub := &recordingPublisher{}
    m := New(entries, reservations, tables, sender, pub)
    m.now = func() time.Time { return matchNow }
    return m, entries, reservations, tables, sender, pub
}

func TestCapacityClass(t *testing.T) {
    assert.Equal(t, []uint32{2}, capacityClass(1))
    assert.Equal(t, []uint32{2, 4}, capacityClass(2))
    assert.Equal(t, []uint32{2, 4}, capacityClass(3))
    assert.Equal(t, []uint32{4, 6}, capacityClass(4))
    assert.Equal(t, []uint32{4, 6}, capacityClass(6))
}

// TestMatch_NotifiesWhenTableFrees covers a party of three waiting
// while no 2- or 4-seat table is free, then a 4-seat table frees up
// and the next run notifies exactly once.
func TestMatch_NotifiesWhenTableFrees(t *testing.T) {
    m, entries, reservations, tables, sender, pub := newTestMatcher()

    entries.rows[1] = &model.WaitlistEntry{
        ID: 1, Name: "Dana", Contact: "dana@example.com", Guests: 3,
        Date: matchDate, TimeSlot: "19:00-20:00", Status: model.WaitlistWaiting,
    }
    // the only suitable table is reserved for that slot
    tables.tables = []model.Table{{ID: 10, Number: 4, Seats: 4}}
    reservations.activeTables[rkey(matchDate, "19:00-20:00")] = []uint64{10}

    m.tick(context.Background())
    assert.Equal(t, model.WaitlistWaiting, entries.rows[1].Status, "no table -> stays WAITING")
    assert.Empty(t, sender.sent)

    // the reservation is cancelled, freeing table 10
    reservations.activeTables[rkey(matchDate, "19:00-20:00")] = nil

    m.tick(context.Background())
    assert.Equal(t, model.WaitlistNotified, entries.rows[1].Status)
    require.Len(t, sender.sent, 1)
    assert.Equal(t, "dana@example.com", sender.sent[0].To)
    assert.Contains(t, pub.events, "waitlist-update")

    // subsequent runs must not re-notify
    m.tick(context.Background())
    m.tick(context.Background())
    assert.Len(t, sender.sent, 1, "NOTIFIED entries are never re-notified")
}

func TestMatch_SkipsOverrideOccupiedTables(t *testing.T) {
    m, entries, _, tables, sender, _ := newTestMatcher()

    entries.rows[1] = &model.WaitlistEntry{
        ID: 1, Contact: "a@example.com", Guests: 2,
        Date: matchDate, TimeSlot: "19:00-20:00", Status: model.WaitlistWaiting,
    }
    endOfDay := time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC)
    tables.tables = []model.Table{
        {ID: 1, Seats: 2, Override: model.OverrideOccupied, OccupiedUntil: &endOfDay},
    }

    m.tick(context.Background())
    assert.Equal(t, model.WaitlistWaiting, entries.rows[1].Status)
    assert.Empty(t, sender.sent)
}

func TestMatch_OneFailureDoesNotAbortBatch(t *testing.T) {
    m, entries, _, tables, sender, _ := newTestMatcher()

    entries.rows[1] = &model.WaitlistEntry{
        ID: 1, Contact: "down@example.com", Guests: 2,
        Date: matchDate, TimeSlot: "19:00-20:00", Status: model.WaitlistWaiting,
    }
    entries.rows[2] = &model.WaitlistEntry{
        ID: 2, Contact: "up@example.com", Guests: 2,
        Date: matchDate, TimeSlot: "20:00-21:00", Status: model.WaitlistWaiting,
    }
    tables.tables = []model.Table{{ID: 1, Seats: 2}, {ID: 2, Seats: 2}}
    sender.fail["down@example.com"] = true

    m.tick(context.Background())

    // both entries were matched; the failed delivery is logged, not retried
    assert.Equal(t, model.WaitlistNotified, entries.rows[1].Status)
    assert.Equal(t, model.WaitlistNotified, entries.rows[2].Status)
    require.Len(t, sender.sent, 1)
    assert.Equal(t, "up@example.com", sender.sent[0].To)
}

func TestReminders_ExactlyOnce(t *testing.T) {
    m, _, reservations, _, sender, _ := newTestMatcher()
    reservations.unreminded = []model.Reservation{
        {ID: 5, UserID: 7, TimeSlot: "19:00-20:00", Status: model.ReservationConfirmed},
    }

    m.tick(context.Background())
    require.Len(t, sender.sent, 1)
    assert.Equal(t, "user.7", sender.sent[0].Topic)

    m.tick(context.Background())
    assert.Len(t, sender.sent, 1, "reminder is sent once")
}

func TestRun_StopsOnCancel(t *testing.T) {
    m, _, _, _, _, _ := newTestMatcher()
    m.Interval = 10 * time.Millisecond

    ctx, cancel := context.WithCancel(context.Background())
    done := make(chan error, 1)
    go func() { done <- m.Run(ctx) }()

    time.Sleep(30 * time.Millisecond)
    cancel()
    select {
    case err := <-done:
        assert.ErrorIs(t, err, context.Canceled)
    case <-time.After(time.Second):
        t.Fatal("matcher did not stop")
    }
}
