package model

import "time"

// DayHours is one weekday's working window as wall-clock strings. The zero
// value means "not a working day".
type DayHours struct {
	Working bool
	Start   string // "HH:MM"
	End     string // "HH:MM"
}

// WeekHours maps time.Weekday (0=Sunday..6=Saturday) to that day's hours.
type WeekHours [7]DayHours

// Day returns the hours for wd, tolerating out-of-range values.
func (w WeekHours) Day(wd time.Weekday) DayHours {
	if wd < 0 || int(wd) >= len(w) {
		return DayHours{}
	}
	return w[wd]
}
