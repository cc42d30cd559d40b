package database

// seed.go loads the initial floor plan, weekly opening template and a
// small menu on first boot. Seeding only runs when the sections table
// is empty, so a populated database is never touched.

import (
	"context"
	"database/sql"
)

// Seed inserts starter data when the database is empty.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	sections := []struct {
		name, desc string
	}{
		{"Main Hall", "Ground floor dining area"},
		{"Terrace", "Outdoor seating, weather permitting"},
	}
	// tables per section: number -> seats
	layout := [][]uint32{
		{2, 2, 4, 4, 6}, // Main Hall
		{2, 4, 4, 6},    // Terrace
	}
	for i, s := range sections {
		res, err := db.ExecContext(ctx, `INSERT INTO sections (name, description) VALUES (?, ?)`, s.name, s.desc)
		if err != nil {
			return err
		}
		sectionID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for num, seats := range layout[i] {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO tables (section_id, number, seats) VALUES (?, ?, ?)`,
				sectionID, num+1, seats); err != nil {
				return err
			}
		}
	}

	// One template entry per weekday; Monday closed.
	weekdays := []struct {
		day        string
		open, shut uint32
		isOpen     bool
	}{
		{"Monday", 0, 0, false},
		{"Tuesday", 12, 22, true},
		{"Wednesday", 12, 22, true},
		{"Thursday", 12, 22, true},
		{"Friday", 12, 23, true},
		{"Saturday", 12, 23, true},
		{"Sunday", 12, 21, true},
	}
	for _, w := range weekdays {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO timeslots (weekday, open_hour, close_hour, is_open) VALUES (?, ?, ?, ?)`,
			w.day, w.open, w.shut, w.isOpen); err != nil {
			return err
		}
	}

	meals := []struct {
		name  string
		price uint32
	}{
		{"Margherita", 1250},
		{"Rib-eye steak", 3400},
		{"House salad", 950},
		{"Tiramisu", 800},
	}
	for _, m := range meals {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO meals (name, price_cents) VALUES (?, ?)`, m.name, m.price); err != nil {
			return err
		}
	}
	return nil
}
