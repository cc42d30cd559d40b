package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for table reservations.
// Conflict safety rests on the uniq_active_slot key of the
// reservations table: an active_flag generated column is 'A' while the
// status is PENDING or CONFIRMED and NULL otherwise, so MySQL rejects
// a second active reservation for the same (table, date, slot) while
// allowing any number of cancelled ones. All timestamps are UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const dateLayout = "2006-01-02"

// mysqlDuplicate reports whether err is a MySQL duplicate-key error.
func mysqlDuplicate(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}

// Create inserts a new PENDING reservation and populates the generated
// ID and timestamps on the given model. ErrConflict is returned when
// the slot already holds an active reservation.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    const q = `INSERT INTO reservations (table_id, section_id, user_id, guests, slot_date, time_slot, status)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q,
        res.TableID, res.SectionID, res.UserID, res.Guests,
        res.ReservationTime.Format(dateLayout), res.TimeSlot, model.ReservationPending)
    if err != nil {
        if mysqlDuplicate(err) {
            return ErrConflict
        }
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    res.Status = model.ReservationPending
    // Query back the row to populate timestamps and defaults.
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// Confirm attaches the confirmation artifact and promotes the
// reservation to CONFIRMED in a single statement, so readers never
// observe a CONFIRMED reservation without its artifact.
func (r *ReservationRepo) Confirm(ctx context.Context, id uint64, qrCode string) error {
    const q = `UPDATE reservations SET status = ?, qr_code = ? WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, model.ReservationConfirmed, qrCode, id, model.ReservationPending)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// GetByID returns a single reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    const q = `SELECT id, table_id, section_id, user_id, guests, slot_date, time_slot, status, qr_code, notified, created_at, updated_at
               FROM reservations WHERE id = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return res, nil
}

// Cancel moves an active reservation to CANCELLED. Cancelling a
// reservation that is already terminal returns ErrConflict so the
// caller can distinguish a repeat cancel from success.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) error {
    const q = `UPDATE reservations SET status = ? WHERE id = ? AND status IN (?, ?)`
    res, err := r.db.ExecContext(ctx, q, model.ReservationCancelled, id, model.ReservationPending, model.ReservationConfirmed)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Either the row is missing or it is already terminal.
        if _, err := r.GetByID(ctx, id); err != nil {
            return err
        }
        return ErrConflict
    }
    return nil
}

// HasActiveSlot reports whether an active (PENDING or CONFIRMED)
// reservation exists for the given table, date and slot label. The
// date comparison is day-granular via the DATE column.
func (r *ReservationRepo) HasActiveSlot(ctx context.Context, tableID uint64, date time.Time, timeSlot string) (bool, error) {
    const q = `SELECT COUNT(*) FROM reservations
               WHERE table_id = ? AND slot_date = ? AND time_slot = ? AND status IN (?, ?)`
    var n int
    err := r.db.QueryRowContext(ctx, q, tableID, date.Format(dateLayout), timeSlot,
        model.ReservationPending, model.ReservationConfirmed).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// ActiveTableIDs returns the IDs of all tables holding an active
// reservation for the given date and slot. The waitlist matcher uses
// this as its excluded table set.
func (r *ReservationRepo) ActiveTableIDs(ctx context.Context, date time.Time, timeSlot string) ([]uint64, error) {
    const q = `SELECT DISTINCT table_id FROM reservations
               WHERE slot_date = ? AND time_slot = ? AND status IN (?, ?)`
    rows, err := r.db.QueryContext(ctx, q, date.Format(dateLayout), timeSlot,
        model.ReservationPending, model.ReservationConfirmed)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]uint64, 0)
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        out = append(out, id)
    }
    return out, rows.Err()
}

// UnremindedOn returns CONFIRMED reservations for the given date whose
// upcoming-reservation reminder has not been sent yet.
func (r *ReservationRepo) UnremindedOn(ctx context.Context, date time.Time) ([]model.Reservation, error) {
    const q = `SELECT id, table_id, section_id, user_id, guests, slot_date, time_slot, status, qr_code, notified, created_at, updated_at
               FROM reservations WHERE slot_date = ? AND status = ? AND notified = 0`
    rows, err := r.db.QueryContext(ctx, q, date.Format(dateLayout), model.ReservationConfirmed)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}

// MarkReminded flips the notified flag. The guard on notified = 0
// makes the reminder exactly-once even if two matcher runs race.
func (r *ReservationRepo) MarkReminded(ctx context.Context, id uint64) (bool, error) {
    const q = `UPDATE reservations SET notified = 1 WHERE id = ? AND notified = 0`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// scanReservation scans one reservations row including nullable qr_code.
func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
    var res model.Reservation
    var qr sql.NullString
    if err := row.Scan(&res.ID, &res.TableID, &res.SectionID, &res.UserID, &res.Guests,
        &res.ReservationTime, &res.TimeSlot, &res.Status, &qr, &res.Notified,
        &res.CreatedAt, &res.UpdatedAt); err != nil {
        return nil, err
    }
    if qr.Valid {
        res.QRCode = qr.String
    }
    return &res, nil
}
