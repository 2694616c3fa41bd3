package model

import (
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
)

// TimeOffKind discriminates the three shapes a time-off record can take.
// Exactly one shape's fields are meaningful per record.
type TimeOffKind string

const (
	TimeOffFullDay   TimeOffKind = "full_day"
	TimeOffRanged    TimeOffKind = "range"
	TimeOffRecurring TimeOffKind = "recurring"
)

// TimeOff is a staff blackout. FullDay blocks an entire shop-local calendar
// date; Ranged blocks an explicit absolute interval; Recurring blocks a
// wall-clock range on one weekday (0=Sunday..6=Saturday), reprojected onto
// every matching date.
type TimeOff struct {
	ID      string
	ShopID  string
	StaffID string
	Kind    TimeOffKind

	// FullDay
	Day timezone.Date

	// Ranged
	StartTime time.Time
	EndTime   time.Time

	// Recurring
	Weekday    time.Weekday
	StartClock string // "HH:MM"
	EndClock   string // "HH:MM"

	Reason string
	Active bool
}
