package model

import "time"

// Waitlist entry status values. The matcher only ever moves WAITING
// entries forward to NOTIFIED; SEATED and CANCELLED are set by staff.
const (
    WaitlistWaiting   = "WAITING"
    WaitlistNotified  = "NOTIFIED"
    WaitlistSeated    = "SEATED"
    WaitlistCancelled = "CANCELLED"
)

// WaitlistEntry is a guest waiting for a table on a desired date and
// time slot. Entries are created WAITING and transitioned to NOTIFIED
// exactly once when the matcher finds a free table of suitable size.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – guest name.
//  Contact   – guest email address.
//  Guests    – party size.
//  Date      – desired reservation date (day granularity).
//  TimeSlot  – desired slot label.
//  Status    – WAITING, NOTIFIED, SEATED or CANCELLED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type WaitlistEntry struct {
    ID        uint64    // waitlist.id
    Name      string    // waitlist.name
    Contact   string    // waitlist.contact
    Guests    uint32    // waitlist.guests
    Date      time.Time // waitlist.slot_date
    TimeSlot  string    // waitlist.time_slot
    Status    string    // waitlist.status
    CreatedAt time.Time // waitlist.created_at
    UpdatedAt time.Time // waitlist.updated_at
}
