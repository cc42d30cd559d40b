package model

import "time"

// Timeslot is one entry of the weekly opening template. Exactly one
// entry exists per weekday name; callers treat a missing weekday as
// closed. OpenHour and CloseHour are 24h clock hours.
//
// Fields:
//  ID        – primary key identifier.
//  Weekday   – weekday name ("Monday".."Sunday").
//  OpenHour  – first hour of service.
//  CloseHour – hour service ends.
//  IsOpen    – whether the restaurant opens at all on this weekday.
type Timeslot struct {
    ID        uint64 // timeslots.id
    Weekday   string // timeslots.weekday
    OpenHour  uint32 // timeslots.open_hour
    CloseHour uint32 // timeslots.close_hour
    IsOpen    bool   // timeslots.is_open
}

// Closure marks a specific calendar date as fully closed regardless of
// the weekly template. Unique per date.
//
// Fields:
//  ID        – primary key identifier.
//  Date      – the closed calendar date (time component ignored).
//  Reason    – optional human-readable reason.
//  CreatedAt – creation timestamp.
type Closure struct {
    ID        uint64    // closures.id
    Date      time.Time // closures.closed_on
    Reason    string    // closures.reason
    CreatedAt time.Time // closures.created_at
}
