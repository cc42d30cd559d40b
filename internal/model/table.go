package model

import "time"

// Live override status values for a table. A table carries at most one
// override at a time; OverrideNone means no staff override is active
// and availability is derived from reservations alone.
const (
    OverrideNone     = ""         // no live override set
    OverrideOccupied = "OCCUPIED" // staff marked the table as walk-in occupied
)

// Table describes a physical table in the restaurant. Tables are
// uniquely identified per section by their number. The live override
// fields record a staff-set walk-in occupancy valid only for the
// calendar day it was set; it is never swept by a background job and
// readers must treat a past OccupiedUntil as no override at all.
//
// Fields:
//  ID            – primary key identifier.
//  SectionID     – section this table belongs to.
//  Number        – table number within the section (display name).
//  Seats         – seat count (2, 4 or 6 in the standard floor plan).
//  Override      – live override status (empty or OCCUPIED).
//  OccupiedUntil – instant the override expires (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Table struct {
    ID            uint64     // tables.id
    SectionID     uint64     // tables.section_id
    Number        uint32     // tables.number
    Seats         uint32     // tables.seats
    Override      string     // tables.override_status
    OccupiedUntil *time.Time // tables.occupied_until (nullable)
    CreatedAt     time.Time  // tables.created_at
    UpdatedAt     time.Time  // tables.updated_at
}

// OverrideActiveOn reports whether the table's live override should be
// honoured for the given date. The comparison is day-granular: an
// override set for today does not block queries for other days, and an
// override whose expiry has already passed is stale and ignored.
func (t *Table) OverrideActiveOn(date time.Time, now time.Time) bool {
    if t.Override != OverrideOccupied || t.OccupiedUntil == nil {
        return false
    }
    if t.OccupiedUntil.Before(now) {
        return false // stale override, ignored rather than cleaned
    }
    y1, m1, d1 := t.OccupiedUntil.Date()
    y2, m2, d2 := date.Date()
    return y1 == y2 && m1 == m2 && d1 == d2
}
