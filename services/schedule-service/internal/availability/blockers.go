package availability

import (
	"fmt"
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/model"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
)

type Kind string

const (
	KindAppointment Kind = "appointment"
	KindTimeOff     Kind = "timeoff"
)

// Meta is display payload carried along with a blocker. The slot engine and
// the agenda compositor thread it through without interpreting it.
type Meta struct {
	ID        string
	StaffID   string
	ServiceID string
	Status    string
	Reason    string
}

// Blocker is one resolved blocking interval in the shop zone. Subtype is set
// for time off ("full-day", "range", "recurring") and empty for appointments.
type Blocker struct {
	Interval
	Kind            Kind
	Subtype         string
	DeclaredMinutes int // appointment service duration; 0 for time off
	Meta            Meta
}

// EffectiveDuration is the larger of the blocker's actual interval length and
// its declared service duration. A 30-minute service squeezed into a shorter
// interval still counts as long against the coarse grid.
func (b Blocker) EffectiveDuration() time.Duration {
	declared := time.Duration(b.DeclaredMinutes) * time.Minute
	if actual := b.Duration(); actual > declared {
		return actual
	}
	return declared
}

// CollectBlockers normalizes the day's appointment and time-off snapshots
// into shop-local blocking intervals. Cancelled appointments and inactive
// time off never block; a recurring record whose weekday does not match the
// date is dropped. Output order is unspecified.
func CollectBlockers(
	date timezone.Date,
	loc *time.Location,
	appts []model.Appointment,
	timeOff []model.TimeOff,
	pol timezone.Policy,
) ([]Blocker, error) {
	dayStart, dayEnd := timezone.DayBounds(date, loc)

	var blockers []Blocker
	for _, a := range appts {
		if !a.Blocks() {
			continue
		}
		blockers = append(blockers, Blocker{
			Interval:        Interval{Start: a.StartTime.In(loc), End: a.EndTime.In(loc)},
			Kind:            KindAppointment,
			DeclaredMinutes: a.DurationMinutes,
			Meta: Meta{
				ID:        a.ID,
				StaffID:   a.StaffID,
				ServiceID: a.ServiceID,
				Status:    a.Status,
			},
		})
	}

	for _, t := range timeOff {
		if !t.Active {
			continue
		}
		meta := Meta{ID: t.ID, StaffID: t.StaffID, Reason: t.Reason}

		switch t.Kind {
		case model.TimeOffFullDay:
			if t.Day != date {
				continue
			}
			blockers = append(blockers, Blocker{
				Interval: Interval{Start: dayStart, End: dayEnd},
				Kind:     KindTimeOff,
				Subtype:  "full-day",
				Meta:     meta,
			})

		case model.TimeOffRanged:
			iv := Interval{Start: t.StartTime.In(loc), End: t.EndTime.In(loc)}
			if !iv.Overlaps(Interval{Start: dayStart, End: dayEnd}) {
				continue
			}
			blockers = append(blockers, Blocker{
				Interval: iv,
				Kind:     KindTimeOff,
				Subtype:  "range",
				Meta:     meta,
			})

		case model.TimeOffRecurring:
			if t.Weekday != date.Weekday() {
				continue
			}
			startClock, err := timezone.ParseClock(t.StartClock)
			if err != nil {
				continue
			}
			endClock, err := timezone.ParseClock(t.EndClock)
			if err != nil {
				continue
			}
			start, err := timezone.Resolve(date, startClock, loc, pol)
			if err != nil {
				return nil, err
			}
			end, err := timezone.Resolve(date, endClock, loc, pol)
			if err != nil {
				return nil, err
			}
			if !end.After(start) {
				continue
			}
			blockers = append(blockers, Blocker{
				Interval: Interval{Start: start, End: end},
				Kind:     KindTimeOff,
				Subtype:  "recurring",
				Meta:     meta,
			})

		default:
			return nil, fmt.Errorf("unknown time-off kind %q (id %s)", t.Kind, t.ID)
		}
	}

	return blockers, nil
}
