// Package workcal resolves a staff member's weekly working hours onto a
// concrete shop-local date.
package workcal

import (
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/model"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
)

// Window is the working interval for one date, anchored in the shop zone.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolve projects the weekday's hours onto date. A nil window means "not
// working that day": the day is marked non-working, hours are absent or
// malformed, or the window is empty. None of those are errors; the caller
// renders them as zero slots and an empty agenda window.
func Resolve(week model.WeekHours, date timezone.Date, loc *time.Location) (*Window, error) {
	day := week.Day(date.Weekday())
	if !day.Working || day.Start == "" || day.End == "" {
		return nil, nil
	}

	startClock, err := timezone.ParseClock(day.Start)
	if err != nil {
		return nil, nil
	}
	endClock, err := timezone.ParseClock(day.End)
	if err != nil {
		return nil, nil
	}

	start, err := timezone.Resolve(date, startClock, loc, timezone.ShiftForward)
	if err != nil {
		return nil, err
	}
	end, err := timezone.Resolve(date, endClock, loc, timezone.ShiftForward)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, nil
	}
	return &Window{Start: start, End: end}, nil
}
