package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// SectionRepo provides read access to dining room sections.
type SectionRepo struct {
    db *sql.DB
}

// NewSectionRepo returns a new SectionRepo bound to the given database.
func NewSectionRepo(db *sql.DB) *SectionRepo { return &SectionRepo{db: db} }

// GetByID returns a single section or ErrNotFound.
func (r *SectionRepo) GetByID(ctx context.Context, id uint64) (*model.Section, error) {
    const q = `SELECT id, name, description, created_at, updated_at FROM sections WHERE id = ?`
    var s model.Section
    err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &s, nil
}

// List returns all sections ordered by id.
func (r *SectionRepo) List(ctx context.Context) ([]model.Section, error) {
    const q = `SELECT id, name, description, created_at, updated_at FROM sections ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Section, 0)
    for rows.Next() {
        var s model.Section
        if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}
