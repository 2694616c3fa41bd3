// Package timezone converts between absolute instants and shop-local wall
// clocks using IANA zone rules. All the tricky DST handling for the rest of
// the service lives here.
package timezone

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidZone     = errors.New("unrecognized time zone")
	ErrInvalidDate     = errors.New("invalid date (want YYYY-MM-DD)")
	ErrInvalidClock    = errors.New("invalid clock time (want HH:MM)")
	ErrNonexistentTime = errors.New("wall-clock time does not exist in zone (DST gap)")
	ErrAmbiguousTime   = errors.New("wall-clock time is ambiguous in zone (DST fold)")
)

// Policy decides what Resolve does with wall-clock values that fall in a DST
// gap or fold. ShiftForward is the service default: a nonexistent time is
// pushed past the gap by the transition delta, an ambiguous time resolves to
// the earlier of its two instants. Strict refuses both.
type Policy int

const (
	ShiftForward Policy = iota
	Strict
)

// LoadZone wraps time.LoadLocation with a stable error for unknown names.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidZone, name)
	}
	return loc, nil
}

// Clock is a zone-less wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Resolve maps a calendar date plus wall clock onto an absolute instant in
// loc, applying the given DST policy. The returned time carries loc so its
// wall-clock representation is recoverable without further conversion.
func Resolve(d Date, c Clock, loc *time.Location, pol Policy) (time.Time, error) {
	if loc == nil {
		return time.Time{}, ErrInvalidZone
	}

	// Probe the UTC offsets in force around the date; a transition day has
	// two. For each offset, the requested wall clock corresponds to exactly
	// one candidate instant, which may or may not read back as that wall
	// clock.
	wallUTC := time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, time.UTC)

	var matches []time.Time
	for _, off := range offsetsAround(d, loc) {
		cand := wallUTC.Add(-time.Duration(off) * time.Second).In(loc)
		if cand.Year() == d.Year && cand.Month() == d.Month && cand.Day() == d.Day &&
			cand.Hour() == c.Hour && cand.Minute() == c.Minute {
			matches = append(matches, cand)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Before(matches[j]) })

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		// DST gap: the wall clock was skipped.
		if pol == Strict {
			return time.Time{}, fmt.Errorf("%w: %s %02d:%02d", ErrNonexistentTime, d, c.Hour, c.Minute)
		}
		// time.Date normalizes a skipped wall clock forward by the
		// transition delta, landing on a valid instant after the gap.
		return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc), nil
	default:
		// DST fold: the wall clock occurs twice.
		if pol == Strict {
			return time.Time{}, fmt.Errorf("%w: %s %02d:%02d", ErrAmbiguousTime, d, c.Hour, c.Minute)
		}
		return matches[0], nil
	}
}

// offsetsAround returns the distinct UTC offsets (seconds) observed at the
// start, middle, and end of the date in loc.
func offsetsAround(d Date, loc *time.Location) []int {
	probes := []time.Time{
		time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc),
		time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc),
		time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, loc),
	}
	var offsets []int
	for _, p := range probes {
		_, off := p.Zone()
		found := false
		for _, o := range offsets {
			if o == off {
				found = true
				break
			}
		}
		if !found {
			offsets = append(offsets, off)
		}
	}
	return offsets
}

// DayBounds returns the half-open absolute interval covering the whole
// calendar date in loc: first valid instant of the date up to the first valid
// instant of the next date. DST-safe (a transition day is 23 or 25 hours).
func DayBounds(d Date, loc *time.Location) (start, end time.Time) {
	start = time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	end = time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, loc)
	return start, end
}
