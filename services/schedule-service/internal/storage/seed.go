package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SeedDemoData inserts a demo shop with one staff member, Tue-Sat hours, and
// a recurring Wednesday lunch blackout when the database is empty. Keeps dev
// and compose environments usable without a separate admin surface.
func (r *Repository) SeedDemoData(ctx context.Context) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM shops`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	shopID := uuid.NewString()
	staffID := uuid.NewString()

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO shops (id, name, timezone, deleted)
		VALUES ($1, 'Demo Barbershop', 'Europe/Amsterdam', false)
	`, shopID); err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO staff (id, shop_id, name, is_active)
		VALUES ($1, $2, 'Demo Barber', true)
	`, staffID, shopID); err != nil {
		return err
	}
	for weekday := int(time.Tuesday); weekday <= int(time.Saturday); weekday++ {
		if _, err := r.pool.Exec(ctx, `
			INSERT INTO staff_week_hours (staff_id, weekday, is_working, start_clock, end_clock)
			VALUES ($1, $2, true, '09:00', '18:00')
			ON CONFLICT (staff_id, weekday) DO NOTHING
		`, staffID, weekday); err != nil {
			return err
		}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_time_off (id, shop_id, staff_id, kind, weekday, start_clock, end_clock, reason, is_active)
		VALUES ($1, $2, $3, 'recurring', $4, '13:00', '14:00', 'lunch', true)
	`, uuid.NewString(), shopID, staffID, int(time.Wednesday))
	return err
}
