// Package agenda merges a day's working window, appointments, and time off
// into one sorted display timeline. Unlike the slot engine it resolves no
// conflicts: overlapping entries are shown as-is.
package agenda

import (
	"sort"
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/availability"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/workcal"
)

type Kind string

const (
	KindWorkingWindow Kind = "workingWindow"
	KindAppointment   Kind = "appointment"
	KindTimeOff       Kind = "timeoff"
)

// Entry is one item of the merged timeline. Times carry the shop zone.
type Entry struct {
	Kind    Kind
	Subtype string
	Start   time.Time
	End     time.Time
	Meta    availability.Meta
}

// Compose builds the day's timeline: at most one working-window entry, one
// entry per blocker. Ranged time off is clamped to the local day so an
// overnight blackout reads as a same-day entry. Entries are sorted by local
// start; ties keep insertion order (working window first, then blockers in
// collection order).
func Compose(win *workcal.Window, blockers []availability.Blocker, date timezone.Date, loc *time.Location, includeWindow bool) []Entry {
	dayStart, dayEnd := timezone.DayBounds(date, loc)

	entries := make([]Entry, 0, len(blockers)+1)
	if includeWindow && win != nil {
		entries = append(entries, Entry{
			Kind:  KindWorkingWindow,
			Start: win.Start,
			End:   win.End,
		})
	}

	for _, b := range blockers {
		start, end := b.Start, b.End
		if b.Kind == availability.KindTimeOff && b.Subtype == "range" {
			if start.Before(dayStart) {
				start = dayStart
			}
			if end.After(dayEnd) {
				end = dayEnd
			}
		}
		entries = append(entries, Entry{
			Kind:    entryKind(b.Kind),
			Subtype: b.Subtype,
			Start:   start,
			End:     end,
			Meta:    b.Meta,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start.Before(entries[j].Start)
	})
	return entries
}

func entryKind(k availability.Kind) Kind {
	if k == availability.KindAppointment {
		return KindAppointment
	}
	return KindTimeOff
}
