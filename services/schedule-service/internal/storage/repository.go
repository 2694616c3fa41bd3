package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lucasvdb/agendly/libs/db"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/model"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
)

var (
	ErrShopNotFound  = errors.New("shop not found")
	ErrStaffNotFound = errors.New("staff not found")
)

// Repository is the read side of the schedule service: shop zone, staff week
// hours, blocking appointments, and time off. Booking writes belong to the
// booking flow, not here.
type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

// ShopZone returns the shop's configured IANA zone, "" when unset.
func (r *Repository) ShopZone(ctx context.Context, shopID string) (string, error) {
	var zone *string
	err := r.pool.QueryRow(ctx, `
		SELECT timezone
		FROM shops
		WHERE id = $1 AND NOT deleted
	`, shopID).Scan(&zone)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrShopNotFound
	}
	if err != nil {
		return "", err
	}
	if zone == nil {
		return "", nil
	}
	return *zone, nil
}

// StaffWeekHours loads the weekly working hours for one staff member.
// Weekdays without a row stay at their zero value (not working).
func (r *Repository) StaffWeekHours(ctx context.Context, shopID, staffID string) (model.WeekHours, error) {
	var week model.WeekHours

	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM staff WHERE id = $1 AND shop_id = $2 AND is_active
		)
	`, staffID, shopID).Scan(&exists)
	if err != nil {
		return week, err
	}
	if !exists {
		return week, ErrStaffNotFound
	}

	rows, err := r.pool.Query(ctx, `
		SELECT weekday, is_working, COALESCE(start_clock, ''), COALESCE(end_clock, '')
		FROM staff_week_hours
		WHERE staff_id = $1
		ORDER BY weekday
	`, staffID)
	if err != nil {
		return week, err
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day model.DayHours
		if err := rows.Scan(&weekday, &day.Working, &day.Start, &day.End); err != nil {
			return week, err
		}
		if weekday < 0 || weekday > 6 {
			return week, fmt.Errorf("staff %s: weekday %d out of range", staffID, weekday)
		}
		week[weekday] = day
	}
	if rows.Err() != nil {
		return week, rows.Err()
	}
	return week, nil
}

// ReadyCheck pings the database for /readyz.
func ReadyCheck(pool *db.Pool) func(context.Context) error {
	return db.ReadyCheck(pool)
}

// dateParam renders a civil date for a Postgres date column.
func dateParam(d timezone.Date) string {
	return d.String()
}
