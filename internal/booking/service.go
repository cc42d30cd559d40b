// Package booking validates and commits reservations. It owns the one
// hard invariant of the system: no two active reservations may share a
// (table, date, slot). The service serializes the conflict check and
// the insert behind a per-table lock, and the storage layer backs it
// up with a unique key, so even writers that bypass the lock cannot
// double-book.
package booking

import (
    "context"
    "errors"
    "fmt"
    "log"
    "regexp"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/broadcast"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/notify"
    "github.com/iliyamo/restaurant-table-reservation/internal/qrtoken"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// ErrInvalidInput wraps all validation failures so handlers can map
// them to a 400 without enumerating causes.
var ErrInvalidInput = errors.New("invalid input")

// slotPattern matches slot labels like "19:00-20:00".
var slotPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d-([01]\d|2[0-3]):[0-5]\d$`)

// ReservationStore is the persistence surface the service needs.
// Implemented by repository.ReservationRepo.
type ReservationStore interface {
    Create(ctx context.Context, res *model.Reservation) error
    Confirm(ctx context.Context, id uint64, qrCode string) error
    GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
    Cancel(ctx context.Context, id uint64) error
    HasActiveSlot(ctx context.Context, tableID uint64, date time.Time, timeSlot string) (bool, error)
}

// TableStore resolves tables for validation. Implemented by
// repository.TableRepo.
type TableStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Table, error)
}

// Recorder mirrors reservation state into the read-optimized
// projection. Implemented by projection.Mirror.
type Recorder interface {
    Record(ctx context.Context, res *model.Reservation) error
}

// Service commits and cancels reservations.
type Service struct {
    reservations ReservationStore
    tables       TableStore
    sealer       *qrtoken.Sealer
    notifier     notify.Sender
    publisher    broadcast.Publisher
    mirror       Recorder
    locks        *tableLocks

    // StaffTopic is the push topic notified about new bookings.
    StaffTopic string
}

// NewService wires a booking service. All dependencies must be non-nil.
func NewService(reservations ReservationStore, tables TableStore, sealer *qrtoken.Sealer,
    notifier notify.Sender, publisher broadcast.Publisher, mirror Recorder) *Service {
    if reservations == nil || tables == nil || sealer == nil || notifier == nil || publisher == nil || mirror == nil {
        panic("nil dependency passed to booking.NewService")
    }
    return &Service{
        reservations: reservations,
        tables:       tables,
        sealer:       sealer,
        notifier:     notifier,
        publisher:    publisher,
        mirror:       mirror,
        locks:        newTableLocks(),
        StaffTopic:   "staff.bookings",
    }
}

// CreateRequest carries the validated booking input.
type CreateRequest struct {
    TableID   uint64
    SectionID uint64
    UserID    uint64
    UserEmail string
    Guests    uint32
    Date      string // "2006-01-02"
    TimeSlot  string // "19:00-20:00"
}

// Create books a table for one slot on one date. It returns the
// confirmed reservation and its QR confirmation artifact, or
// repository.ErrConflict when the slot is already taken. Notification,
// projection and broadcast failures are logged and never fail the
// booking.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
    if req.Guests < 1 || req.Guests > 6 {
        return nil, fmt.Errorf("%w: guests must be between 1 and 6", ErrInvalidInput)
    }
    date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
    if err != nil {
        return nil, fmt.Errorf("%w: bad reservation date %q", ErrInvalidInput, req.Date)
    }
    if !slotPattern.MatchString(req.TimeSlot) {
        return nil, fmt.Errorf("%w: bad time slot %q", ErrInvalidInput, req.TimeSlot)
    }
    table, err := s.tables.GetByID(ctx, req.TableID)
    if err != nil {
        return nil, err
    }
    if table.SectionID != req.SectionID {
        return nil, fmt.Errorf("%w: table %d is not in section %d", ErrInvalidInput, req.TableID, req.SectionID)
    }

    // The check and the insert must not interleave with another booking
    // for the same table. The unique key on reservations is the second
    // line of defence.
    unlock := s.locks.acquire(req.TableID)
    defer unlock()

    taken, err := s.reservations.HasActiveSlot(ctx, req.TableID, date, req.TimeSlot)
    if err != nil {
        return nil, err
    }
    if taken {
        return nil, repository.ErrConflict
    }

    res := &model.Reservation{
        TableID:         req.TableID,
        SectionID:       req.SectionID,
        UserID:          req.UserID,
        Guests:          req.Guests,
        ReservationTime: date,
        TimeSlot:        req.TimeSlot,
    }
    if err := s.reservations.Create(ctx, res); err != nil {
        return nil, err
    }

    qr, err := s.sealer.DataURL(qrtoken.Claims{
        ReservationID:   res.ID,
        UserID:          res.UserID,
        ReservationTime: res.ReservationTime,
    })
    if err != nil {
        // The reservation would block its slot forever without an
        // artifact, so undo the insert before reporting failure.
        if cerr := s.reservations.Cancel(ctx, res.ID); cerr != nil {
            log.Printf("booking: rollback of reservation %d failed: %v", res.ID, cerr)
        }
        return nil, fmt.Errorf("generate confirmation artifact: %w", err)
    }
    if err := s.reservations.Confirm(ctx, res.ID, qr); err != nil {
        if cerr := s.reservations.Cancel(ctx, res.ID); cerr != nil {
            log.Printf("booking: rollback of reservation %d failed: %v", res.ID, cerr)
        }
        return nil, err
    }
    res.Status = model.ReservationConfirmed
    res.QRCode = qr

    s.afterCreate(ctx, res, req.UserEmail)
    return res, nil
}

// afterCreate runs the best-effort side effects of a committed
// booking: confirmation email, staff push and the dashboard mirror.
func (s *Service) afterCreate(ctx context.Context, res *model.Reservation, email string) {
    when := fmt.Sprintf("%s, %s", res.ReservationTime.Format("Monday, 2 January 2006"), res.TimeSlot)
    if email != "" {
        if err := s.notifier.Send(ctx, notify.Notification{
            To:          email,
            Subject:     "Your reservation is confirmed",
            Body:        fmt.Sprintf("Your table for %d is confirmed for %s. Show the attached code on arrival.", res.Guests, when),
            Attachments: []string{res.QRCode},
        }); err != nil {
            log.Printf("booking: confirmation email for reservation %d failed: %v", res.ID, err)
        }
    }
    if err := s.notifier.Send(ctx, notify.Notification{
        Topic:   s.StaffTopic,
        Subject: "New reservation",
        Body:    fmt.Sprintf("Table %d booked for %s (%d guests).", res.TableID, when, res.Guests),
    }); err != nil {
        log.Printf("booking: staff push for reservation %d failed: %v", res.ID, err)
    }
    if err := s.mirror.Record(ctx, res); err != nil {
        log.Printf("booking: projection mirror for reservation %d failed: %v", res.ID, err)
    }
}

// Cancel marks a reservation CANCELLED on behalf of its owner or a
// staff member. It returns repository.ErrForbidden when the caller may
// not cancel, repository.ErrNotFound for unknown IDs and
// repository.ErrConflict when the reservation is already terminal.
// On success the freed slot is broadcast so clients need not wait for
// their next availability poll.
func (s *Service) Cancel(ctx context.Context, reservationID, callerID uint64, callerRole, callerEmail string) (*model.Reservation, error) {
    res, err := s.reservations.GetByID(ctx, reservationID)
    if err != nil {
        return nil, err
    }
    if res.UserID != callerID && !model.StaffRole(callerRole) {
        return nil, repository.ErrForbidden
    }
    if err := s.reservations.Cancel(ctx, reservationID); err != nil {
        return nil, err
    }
    res.Status = model.ReservationCancelled

    if err := s.mirror.Record(ctx, res); err != nil {
        log.Printf("booking: projection mirror for cancelled reservation %d failed: %v", res.ID, err)
    }
    if err := s.publisher.Publish(ctx, broadcast.EventTableAvailable, map[string]any{
        "table_id":  res.TableID,
        "date":      res.ReservationTime.Format("2006-01-02"),
        "time_slot": res.TimeSlot,
    }); err != nil {
        log.Printf("booking: table-available broadcast for reservation %d failed: %v", res.ID, err)
    }
    if callerEmail != "" {
        if err := s.notifier.Send(ctx, notify.Notification{
            To:      callerEmail,
            Subject: "Your reservation was cancelled",
            Body:    fmt.Sprintf("Your reservation for %s, slot %s, has been cancelled.", res.ReservationTime.Format("Monday, 2 January 2006"), res.TimeSlot),
        }); err != nil {
            log.Printf("booking: cancellation email for reservation %d failed: %v", res.ID, err)
        }
    }
    if err := s.notifier.Send(ctx, notify.Notification{
        Topic:   s.StaffTopic,
        Subject: "Reservation cancelled",
        Body:    fmt.Sprintf("Reservation %d for table %d on %s %s was cancelled.", res.ID, res.TableID, res.ReservationTime.Format("2006-01-02"), res.TimeSlot),
    }); err != nil {
        log.Printf("booking: cancellation notice for reservation %d failed: %v", res.ID, err)
    }
    return res, nil
}
