package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/model"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
)

// ListForDay returns the active time off relevant to one shop-local date:
// ranged records overlapping [dayStart, dayEnd), full-day records stored for
// the date, and every recurring record. Weekday filtering of recurring rows
// is left to the collector, which owns that rule.
func (r *Repository) ListForDay(ctx context.Context, shopID, staffID string, date timezone.Date, dayStart, dayEnd time.Time) ([]model.TimeOff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, shop_id::text, staff_id::text, kind,
			COALESCE(day_date::text, ''), start_time, end_time,
			COALESCE(weekday, -1), COALESCE(start_clock, ''), COALESCE(end_clock, ''),
			COALESCE(reason, ''), is_active
		FROM staff_time_off
		WHERE shop_id = $1
			AND staff_id = $2
			AND is_active
			AND (
				(kind = 'full_day' AND day_date = $3)
				OR (kind = 'range' AND start_time < $5 AND end_time > $4)
				OR kind = 'recurring'
			)
	`, shopID, staffID, dateParam(date), dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeOff
	for rows.Next() {
		var (
			t          model.TimeOff
			kind       string
			dayText    string
			start, end *time.Time
			weekday    int
		)
		if err := rows.Scan(
			&t.ID,
			&t.ShopID,
			&t.StaffID,
			&kind,
			&dayText,
			&start,
			&end,
			&weekday,
			&t.StartClock,
			&t.EndClock,
			&t.Reason,
			&t.Active,
		); err != nil {
			return nil, err
		}
		t.Kind = model.TimeOffKind(kind)

		switch t.Kind {
		case model.TimeOffFullDay:
			day, err := timezone.ParseDate(dayText)
			if err != nil {
				return nil, fmt.Errorf("time off %s: %w", t.ID, err)
			}
			t.Day = day
		case model.TimeOffRanged:
			if start == nil || end == nil {
				return nil, fmt.Errorf("time off %s: range without start/end", t.ID)
			}
			t.StartTime = *start
			t.EndTime = *end
		case model.TimeOffRecurring:
			if weekday < 0 || weekday > 6 {
				return nil, fmt.Errorf("time off %s: weekday %d out of range", t.ID, weekday)
			}
			t.Weekday = time.Weekday(weekday)
		default:
			return nil, fmt.Errorf("time off %s: unknown kind %q", t.ID, kind)
		}
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
