package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/workcal"
)

var ErrInvalidScheme = errors.New("invalid slot scheme")

// Scheme is the dual-granularity policy: offer Coarse slots opportunistically
// and fall back to Fine ones where a coarse slot is partially taken. Coarse
// must be a whole multiple of Fine. The walk logic below is granularity-
// agnostic, so alternate schemes substitute without touching it.
type Scheme struct {
	Fine   time.Duration
	Coarse time.Duration
}

func DefaultScheme() Scheme {
	return Scheme{Fine: 15 * time.Minute, Coarse: 30 * time.Minute}
}

func (s Scheme) Validate() error {
	if s.Fine <= 0 || s.Coarse <= 0 {
		return fmt.Errorf("%w: granularities must be positive", ErrInvalidScheme)
	}
	if s.Fine%time.Minute != 0 || s.Coarse%time.Minute != 0 {
		return fmt.Errorf("%w: granularities must be whole minutes", ErrInvalidScheme)
	}
	if s.Coarse%s.Fine != 0 {
		return fmt.Errorf("%w: coarse (%s) must be a multiple of fine (%s)", ErrInvalidScheme, s.Coarse, s.Fine)
	}
	return nil
}

// Slot is one offerable start. Its times carry the shop zone, so both the
// local and the absolute representation are recoverable from the same value.
type Slot struct {
	Interval
	Granularity time.Duration
}

// Generate derives the offerable slots for the working window against the
// day's blockers: the accepted coarse slots in chronological order, followed
// by the accepted fine slots in chronological order.
//
// Both grids anchor on canonical wall-clock marks (a window opening at 9:07
// still yields 9:15, 9:30, ... for a 15-minute grid, never 9:07). A coarse
// slot is offered only when nothing overlaps it at all: a long blocker
// covering it, both fine sub-ranges being taken, or any partial overlap each
// suppress it, leaving at most its free fine sub-slots on offer. A free
// region therefore appears in both lists; callers treat the pair as two
// granularities of the same opening, not as double capacity.
//
// A nil window yields no slots and no error.
func Generate(win *workcal.Window, blockers []Blocker, s Scheme) ([]Slot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if win == nil || !win.End.After(win.Start) {
		return nil, nil
	}

	coarse := coarseCandidates(win, blockers, s)
	fine := fineCandidates(win, blockers, s.Fine)
	return append(coarse, fine...), nil
}

// fineCandidates walks the fine grid from the floored anchor and keeps every
// candidate inside the window that no blocker overlaps. A blocker longer than
// one fine step removes each fine slot it touches, so slots inside a long
// appointment fall out here without special casing.
func fineCandidates(win *workcal.Window, blockers []Blocker, fine time.Duration) []Slot {
	var out []Slot
	for cur := floorToMark(win.Start, fine); ; cur = addMinutes(cur, fine) {
		end := addMinutes(cur, fine)
		if end.After(win.End) {
			break
		}
		if cur.Before(win.Start) {
			continue
		}
		cand := Interval{Start: cur, End: end}
		if overlapsAny(cand, blockers) {
			continue
		}
		out = append(out, Slot{Interval: cand, Granularity: fine})
	}
	return out
}

// coarseCandidates walks the coarse grid on canonical marks fully inside the
// window and applies the promotion rules: discard when a long blocker fully
// occupies the slot, when every fine sub-range is independently taken, or
// when anything overlaps at all; keep only untouched slots.
func coarseCandidates(win *workcal.Window, blockers []Blocker, s Scheme) []Slot {
	cur := floorToMark(win.Start, s.Coarse)
	for cur.Before(win.Start) {
		cur = addMinutes(cur, s.Coarse)
	}

	var out []Slot
	for ; ; cur = addMinutes(cur, s.Coarse) {
		end := addMinutes(cur, s.Coarse)
		if end.After(win.End) {
			break
		}
		cand := Interval{Start: cur, End: end}

		if coveredByLongBlocker(cand, blockers, s.Coarse) {
			continue
		}
		if allSubRangesTaken(cand, blockers, s.Fine) {
			continue
		}
		if overlapsAny(cand, blockers) {
			continue
		}
		out = append(out, Slot{Interval: cand, Granularity: s.Coarse})
	}
	return out
}

func overlapsAny(cand Interval, blockers []Blocker) bool {
	for _, b := range blockers {
		if cand.Overlaps(b.Interval) {
			return true
		}
	}
	return false
}

// coveredByLongBlocker reports whether some blocker at least coarse long
// fully contains the candidate.
func coveredByLongBlocker(cand Interval, blockers []Blocker, coarse time.Duration) bool {
	for _, b := range blockers {
		if b.EffectiveDuration() >= coarse && b.Contains(cand) {
			return true
		}
	}
	return false
}

// allSubRangesTaken splits the candidate into its fine sub-ranges and reports
// whether every one of them is overlapped by some blocker. The blockers need
// not be distinct or aligned; any overlap claims a sub-range.
func allSubRangesTaken(cand Interval, blockers []Blocker, fine time.Duration) bool {
	for sub := cand.Start; sub.Before(cand.End); sub = addMinutes(sub, fine) {
		if !overlapsAny(Interval{Start: sub, End: addMinutes(sub, fine)}, blockers) {
			return false
		}
	}
	return true
}

// floorToMark floors t to the nearest earlier-or-equal wall-clock mark of the
// given granularity. Marks are wall-clock positions (:00/:15/:30/:45 for 15
// minutes), so they stay canonical even on DST transition days where
// instant arithmetic would drift.
func floorToMark(t time.Time, g time.Duration) time.Time {
	step := int(g / time.Minute)
	mins := t.Hour()*60 + t.Minute()
	mins -= mins % step
	return time.Date(t.Year(), t.Month(), t.Day(), mins/60, mins%60, 0, 0, t.Location())
}

// addMinutes advances t by g in wall-clock terms.
func addMinutes(t time.Time, g time.Duration) time.Time {
	mins := t.Hour()*60 + t.Minute() + int(g/time.Minute)
	return time.Date(t.Year(), t.Month(), t.Day(), mins/60, mins%60, 0, 0, t.Location())
}
