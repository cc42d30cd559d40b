package model

import "time"

// Reservation status values. PENDING and CONFIRMED reservations count
// against slot availability; CANCELLED and COMPLETED do not.
const (
    ReservationPending   = "PENDING"
    ReservationConfirmed = "CONFIRMED"
    ReservationCancelled = "CANCELLED"
    ReservationCompleted = "COMPLETED"
)

// Reservation records a guest's booking of a single table for one
// time slot on one date. Only the date component of ReservationTime
// matters for conflict checks; the slot label carries the time window.
// At most one reservation with status PENDING or CONFIRMED may exist
// per (table, date, slot), enforced by the booking service and by a
// unique key on the reservations table.
//
// Fields:
//  ID              – primary key identifier.
//  TableID         – table being reserved.
//  SectionID       – section of the table (denormalised for queries).
//  UserID          – user who made the reservation.
//  Guests          – party size, 1..6.
//  ReservationTime – reservation date (day granularity).
//  TimeSlot        – slot label, e.g. "19:00-20:00".
//  Status          – PENDING, CONFIRMED, CANCELLED or COMPLETED.
//  QRCode          – encrypted confirmation artifact as a data URL,
//                    present once the reservation is CONFIRMED.
//  Notified        – upcoming-reservation reminder already sent.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
    ID              uint64    // reservations.id
    TableID         uint64    // reservations.table_id
    SectionID       uint64    // reservations.section_id
    UserID          uint64    // reservations.user_id
    Guests          uint32    // reservations.guests
    ReservationTime time.Time // reservations.slot_date
    TimeSlot        string    // reservations.time_slot
    Status          string    // reservations.status
    QRCode          string    // reservations.qr_code
    Notified        bool      // reservations.notified
    CreatedAt       time.Time // reservations.created_at
    UpdatedAt       time.Time // reservations.updated_at
}

// Active reports whether the reservation currently blocks its slot.
func (r *Reservation) Active() bool {
    return r.Status == ReservationPending || r.Status == ReservationConfirmed
}
