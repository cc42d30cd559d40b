package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ScheduleRepo provides lookups against the weekly opening template and
// the list of ad-hoc full-day closures. Pure data access; the caller
// decides what a missing weekday entry means (closed).
type ScheduleRepo struct {
    db *sql.DB
}

// NewScheduleRepo returns a new ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// TimeslotFor returns the template entry for a weekday name
// ("Monday".."Sunday") or ErrNotFound when no entry exists.
func (r *ScheduleRepo) TimeslotFor(ctx context.Context, weekday string) (*model.Timeslot, error) {
    const q = `SELECT id, weekday, open_hour, close_hour, is_open FROM timeslots WHERE weekday = ?`
    var t model.Timeslot
    err := r.db.QueryRowContext(ctx, q, weekday).Scan(&t.ID, &t.Weekday, &t.OpenHour, &t.CloseHour, &t.IsOpen)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &t, nil
}

// ClosureOn returns the ad-hoc closure covering the given calendar
// date, or ErrNotFound when the date has none.
func (r *ScheduleRepo) ClosureOn(ctx context.Context, date string) (*model.Closure, error) {
    const q = `SELECT id, closed_on, reason, created_at FROM closures WHERE closed_on = ?`
    var cl model.Closure
    err := r.db.QueryRowContext(ctx, q, date).Scan(&cl.ID, &cl.Date, &cl.Reason, &cl.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &cl, nil
}
