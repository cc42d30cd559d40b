// Package availability derives the live status of tables from three
// independently updated signals: the staff walk-in override on the
// table itself, committed reservations, and the opening schedule. The
// resolver is a pure read path: it never writes and is safe to call
// from any number of goroutines.
package availability

import (
    "context"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Status is the derived availability of one table for one (date, slot).
type Status string

const (
    StatusAvailable Status = "AVAILABLE"
    StatusReserved  Status = "RESERVED"
    StatusOccupied  Status = "OCCUPIED"
)

// TableSource supplies table rows including their live override fields.
// Implemented by repository.TableRepo.
type TableSource interface {
    GetByID(ctx context.Context, id uint64) (*model.Table, error)
    ListBySection(ctx context.Context, sectionID uint64) ([]model.Table, error)
}

// ReservationSource answers whether an active reservation blocks a
// slot. Implemented by repository.ReservationRepo.
type ReservationSource interface {
    HasActiveSlot(ctx context.Context, tableID uint64, date time.Time, timeSlot string) (bool, error)
}

// SectionSource lists sections for the whole-restaurant check.
// Implemented by repository.SectionRepo.
type SectionSource interface {
    List(ctx context.Context) ([]model.Section, error)
}

// Resolver computes table availability. The zero value is not usable;
// construct with New.
type Resolver struct {
    tables       TableSource
    reservations ReservationSource
    sections     SectionSource
    now          func() time.Time // injected for tests
}

// New returns a Resolver reading from the given sources.
func New(tables TableSource, reservations ReservationSource, sections SectionSource) *Resolver {
    return &Resolver{tables: tables, reservations: reservations, sections: sections, now: time.Now}
}

// Resolve returns the status of a table for a date and slot label.
// Precedence is strict:
//  1. a live override whose occupiedUntil falls on the queried calendar
//     day wins and yields OCCUPIED; stale or other-day overrides are
//     ignored entirely,
//  2. an active (PENDING or CONFIRMED) reservation on the same day and
//     slot yields RESERVED,
//  3. otherwise the table is AVAILABLE.
func (r *Resolver) Resolve(ctx context.Context, tableID uint64, date time.Time, timeSlot string) (Status, error) {
    t, err := r.tables.GetByID(ctx, tableID)
    if err != nil {
        return "", err
    }
    return r.resolveTable(ctx, t, date, timeSlot)
}

// resolveTable applies the precedence rules to an already loaded table,
// avoiding a second lookup when callers iterate a section.
func (r *Resolver) resolveTable(ctx context.Context, t *model.Table, date time.Time, timeSlot string) (Status, error) {
    if t.OverrideActiveOn(date, r.now()) {
        return StatusOccupied, nil
    }
    reserved, err := r.reservations.HasActiveSlot(ctx, t.ID, date, timeSlot)
    if err != nil {
        return "", err
    }
    if reserved {
        return StatusReserved, nil
    }
    return StatusAvailable, nil
}

// TableStatus pairs a table with its resolved status for section listings.
type TableStatus struct {
    Table  model.Table `json:"table"`
    Status Status      `json:"status"`
}

// ResolveSection resolves every table in a section for the given date
// and slot.
func (r *Resolver) ResolveSection(ctx context.Context, sectionID uint64, date time.Time, timeSlot string) ([]TableStatus, error) {
    tables, err := r.tables.ListBySection(ctx, sectionID)
    if err != nil {
        return nil, err
    }
    out := make([]TableStatus, 0, len(tables))
    for i := range tables {
        st, err := r.resolveTable(ctx, &tables[i], date, timeSlot)
        if err != nil {
            return nil, err
        }
        out = append(out, TableStatus{Table: tables[i], Status: st})
    }
    return out, nil
}

// SectionFull reports whether every table in the section resolves to a
// non-available status for the given date and slot.
func (r *Resolver) SectionFull(ctx context.Context, sectionID uint64, date time.Time, timeSlot string) (bool, error) {
    statuses, err := r.ResolveSection(ctx, sectionID, date, timeSlot)
    if err != nil {
        return false, err
    }
    for _, s := range statuses {
        if s.Status == StatusAvailable {
            return false, nil
        }
    }
    return true, nil
}

// AllSectionsFull reports whether no table anywhere in the restaurant
// is available for the given date and slot.
func (r *Resolver) AllSectionsFull(ctx context.Context, date time.Time, timeSlot string) (bool, error) {
    sections, err := r.sections.List(ctx)
    if err != nil {
        return false, err
    }
    for _, sec := range sections {
        full, err := r.SectionFull(ctx, sec.ID, date, timeSlot)
        if err != nil {
            return false, err
        }
        if !full {
            return false, nil
        }
    }
    return true, nil
}
