package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// WaitlistRepo provides access to waitlist entries.
type WaitlistRepo struct {
    db *sql.DB
}

// NewWaitlistRepo returns a new WaitlistRepo bound to the given database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

// Create inserts a new WAITING entry and populates the generated ID.
func (r *WaitlistRepo) Create(ctx context.Context, e *model.WaitlistEntry) error {
    const q = `INSERT INTO waitlist (name, contact, guests, slot_date, time_slot, status) VALUES (?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, e.Name, e.Contact, e.Guests,
        e.Date.Format(dateLayout), e.TimeSlot, model.WaitlistWaiting)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    e.ID = uint64(id)
    e.Status = model.WaitlistWaiting
    return nil
}

// ListWaiting returns all entries still in WAITING state, oldest
// first. Entries already NOTIFIED are never returned, which is what
// makes re-running the matcher loop safe.
func (r *WaitlistRepo) ListWaiting(ctx context.Context) ([]model.WaitlistEntry, error) {
    const q = `SELECT id, name, contact, guests, slot_date, time_slot, status, created_at, updated_at
               FROM waitlist WHERE status = ? ORDER BY created_at`
    rows, err := r.db.QueryContext(ctx, q, model.WaitlistWaiting)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.WaitlistEntry, 0)
    for rows.Next() {
        var e model.WaitlistEntry
        if err := rows.Scan(&e.ID, &e.Name, &e.Contact, &e.Guests, &e.Date, &e.TimeSlot,
            &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    return out, rows.Err()
}

// MarkNotified transitions an entry from WAITING to NOTIFIED and
// reports whether this call performed the transition. The WHERE guard
// on the current status means that of two racing matchers at most one
// observes true, so the guest is notified exactly once.
func (r *WaitlistRepo) MarkNotified(ctx context.Context, id uint64) (bool, error) {
    const q = `UPDATE waitlist SET status = ? WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, model.WaitlistNotified, id, model.WaitlistWaiting)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}
