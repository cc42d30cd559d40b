package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo provides access to the tables collection. The live
// override columns are mutated only through SetOverride and
// ClearOverride; availability resolution treats them as read-only.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, section_id, number, seats, override_status, occupied_until, created_at, updated_at`

// scanTable scans one row into a model.Table, handling the nullable
// occupied_until column.
func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
    var t model.Table
    var until sql.NullTime
    if err := row.Scan(&t.ID, &t.SectionID, &t.Number, &t.Seats, &t.Override, &until, &t.CreatedAt, &t.UpdatedAt); err != nil {
        return nil, err
    }
    if until.Valid {
        u := until.Time
        t.OccupiedUntil = &u
    }
    return &t, nil
}

// GetByID returns a single table or ErrNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
    const q = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
    t, err := scanTable(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return t, nil
}

// ListBySection returns all tables in a section ordered by number.
func (r *TableRepo) ListBySection(ctx context.Context, sectionID uint64) ([]model.Table, error) {
    const q = `SELECT ` + tableColumns + ` FROM tables WHERE section_id = ? ORDER BY number`
    return r.list(ctx, q, sectionID)
}

// ListBySeats returns all tables whose seat count is one of the given
// values. The waitlist matcher uses this to find candidates for a
// party's capacity class.
func (r *TableRepo) ListBySeats(ctx context.Context, seats []uint32) ([]model.Table, error) {
    if len(seats) == 0 {
        return []model.Table{}, nil
    }
    placeholders := make([]string, 0, len(seats))
    args := make([]any, 0, len(seats))
    for _, s := range seats {
        placeholders = append(placeholders, "?")
        args = append(args, s)
    }
    q := `SELECT ` + tableColumns + ` FROM tables WHERE seats IN (` + strings.Join(placeholders, ",") + `) ORDER BY seats, id`
    return r.list(ctx, q, args...)
}

func (r *TableRepo) list(ctx context.Context, q string, args ...any) ([]model.Table, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Table, 0)
    for rows.Next() {
        t, err := scanTable(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *t)
    }
    return out, rows.Err()
}

// SetOverride marks a table as walk-in occupied until the given
// instant. The update is idempotent: re-occupying an already occupied
// table simply refreshes the expiry. ErrNotFound is returned when the
// table does not exist.
func (r *TableRepo) SetOverride(ctx context.Context, id uint64, until time.Time) error {
    const q = `UPDATE tables SET override_status = ?, occupied_until = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, model.OverrideOccupied, until, id)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// ClearOverride removes any live override from a table. Clearing a
// table that has no override is a no-op success.
func (r *TableRepo) ClearOverride(ctx context.Context, id uint64) error {
    const q = `UPDATE tables SET override_status = '', occupied_until = NULL WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// requireRow translates a zero-row UPDATE into ErrNotFound. The DSN
// sets clientFoundRows=true so RowsAffected reports matched rows, and
// an idempotent re-apply of the same state still counts as found.
func requireRow(res sql.Result) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}
