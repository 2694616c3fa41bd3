package storage

import (
	"context"
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/model"
)

// ListBlocking returns non-cancelled appointments whose absolute interval
// overlaps [from, to). Half-open on both sides: an appointment ending exactly
// at `from` does not match.
func (r *Repository) ListBlocking(ctx context.Context, shopID, staffID string, from, to time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, shop_id::text, staff_id::text, service_id::text,
			COALESCE(customer_name, ''), start_time, end_time, status,
			COALESCE(duration_minutes, 0), created_at
		FROM appointments
		WHERE shop_id = $1
			AND staff_id = $2
			AND status <> 'cancelled'
			AND start_time < $4
			AND end_time > $3
		ORDER BY start_time ASC
	`, shopID, staffID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID,
			&a.ShopID,
			&a.StaffID,
			&a.ServiceID,
			&a.CustomerName,
			&a.StartTime,
			&a.EndTime,
			&a.Status,
			&a.DurationMinutes,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}
