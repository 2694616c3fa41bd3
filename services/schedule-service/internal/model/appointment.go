package model

import "time"

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

// Appointment is an immutable snapshot of a confirmed booking as read from
// storage. Start and end are absolute instants; DurationMinutes is the
// service's declared length, which may differ from End-Start when an
// appointment was stretched or trimmed by hand.
type Appointment struct {
	ID              string
	ShopID          string
	StaffID         string
	ServiceID       string
	CustomerName    string
	StartTime       time.Time
	EndTime         time.Time
	Status          string
	DurationMinutes int
	CreatedAt       time.Time
}

// Blocks reports whether the appointment occupies its interval. Cancelled
// appointments never block; every other status does.
func (a Appointment) Blocks() bool {
	return a.Status != StatusCancelled
}
