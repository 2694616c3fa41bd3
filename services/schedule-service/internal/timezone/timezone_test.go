package timezone

import (
	"errors"
	"testing"
	"time"
)

func amsterdam(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadZone("Europe/Amsterdam")
	if err != nil {
		t.Fatalf("LoadZone failed: %v", err)
	}
	return loc
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-29")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Year != 2026 || d.Month != time.March || d.Day != 29 {
		t.Fatalf("unexpected date: %+v", d)
	}
	if d.String() != "2026-03-29" {
		t.Fatalf("expected round-trip string, got %q", d.String())
	}
	for _, bad := range []string{"", "29-03-2026", "2026-13-01", "2026-02-30", "garbage"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate for %q, got %v", bad, err)
		}
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	if c.Hour != 9 || c.Minute != 30 {
		t.Fatalf("unexpected clock: %+v", c)
	}
	for _, bad := range []string{"", "25:00", "9:3", "09:60", "noon"} {
		if _, err := ParseClock(bad); !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("expected ErrInvalidClock for %q, got %v", bad, err)
		}
	}
}

func TestLoadZoneUnknown(t *testing.T) {
	if _, err := LoadZone("Mars/Olympus"); !errors.Is(err, ErrInvalidZone) {
		t.Fatalf("expected ErrInvalidZone, got %v", err)
	}
	if _, err := LoadZone("  "); !errors.Is(err, ErrInvalidZone) {
		t.Fatalf("expected ErrInvalidZone for blank name, got %v", err)
	}
}

func TestWeekday(t *testing.T) {
	// 2026-01-07 is a Wednesday, 2026-01-11 a Sunday.
	if wd := (Date{2026, time.January, 7}).Weekday(); wd != time.Wednesday {
		t.Fatalf("expected Wednesday, got %v", wd)
	}
	if wd := (Date{2026, time.January, 11}).Weekday(); wd != time.Sunday {
		t.Fatalf("expected Sunday, got %v", wd)
	}
}

func TestResolvePlainDay(t *testing.T) {
	loc := amsterdam(t)
	got, err := Resolve(Date{2026, time.June, 15}, Clock{Hour: 9, Minute: 30}, loc, Strict)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("expected local 09:30, got %s", got.Format(time.RFC3339))
	}
	// Amsterdam is UTC+2 in June.
	if want := time.Date(2026, time.June, 15, 7, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected instant %s, got %s", want.Format(time.RFC3339), got.UTC().Format(time.RFC3339))
	}
}

func TestResolveRoundTrip(t *testing.T) {
	loc := amsterdam(t)
	dates := []Date{
		{2026, time.March, 28},
		{2026, time.March, 29}, // spring-forward day
		{2026, time.October, 25}, // fall-back day
		{2026, time.December, 1},
	}
	for _, d := range dates {
		c := Clock{Hour: 14, Minute: 45}
		got, err := Resolve(d, c, loc, Strict)
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", d, err)
		}
		back := got.In(loc)
		if DateOf(got, loc) != d || back.Hour() != c.Hour || back.Minute() != c.Minute {
			t.Fatalf("round trip broke for %s: got %s", d, back.Format(time.RFC3339))
		}
	}
}

func TestResolveGap(t *testing.T) {
	loc := amsterdam(t)
	// 2026-03-29 02:30 does not exist: clocks jump 02:00 -> 03:00.
	d := Date{2026, time.March, 29}
	c := Clock{Hour: 2, Minute: 30}

	if _, err := Resolve(d, c, loc, Strict); !errors.Is(err, ErrNonexistentTime) {
		t.Fatalf("expected ErrNonexistentTime, got %v", err)
	}

	got, err := Resolve(d, c, loc, ShiftForward)
	if err != nil {
		t.Fatalf("ShiftForward Resolve failed: %v", err)
	}
	local := got.In(loc)
	if local.Hour() != 3 || local.Minute() != 30 {
		t.Fatalf("expected shift to 03:30, got %s", local.Format(time.RFC3339))
	}
	if want := time.Date(2026, time.March, 29, 1, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected instant %s, got %s", want.Format(time.RFC3339), got.UTC().Format(time.RFC3339))
	}
}

func TestResolveFold(t *testing.T) {
	loc := amsterdam(t)
	// 2026-10-25 02:30 happens twice: once at +02:00, once at +01:00.
	d := Date{2026, time.October, 25}
	c := Clock{Hour: 2, Minute: 30}

	if _, err := Resolve(d, c, loc, Strict); !errors.Is(err, ErrAmbiguousTime) {
		t.Fatalf("expected ErrAmbiguousTime, got %v", err)
	}

	got, err := Resolve(d, c, loc, ShiftForward)
	if err != nil {
		t.Fatalf("ShiftForward Resolve failed: %v", err)
	}
	// Earlier occurrence wins: 02:30 CEST = 00:30 UTC.
	if want := time.Date(2026, time.October, 25, 0, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected earlier instant %s, got %s", want.Format(time.RFC3339), got.UTC().Format(time.RFC3339))
	}
}

func TestDayBounds(t *testing.T) {
	loc := amsterdam(t)

	start, end := DayBounds(Date{2026, time.June, 15}, loc)
	if got := end.Sub(start); got != 24*time.Hour {
		t.Fatalf("expected 24h day, got %s", got)
	}
	if start, end := DayBounds(Date{2026, time.March, 29}, loc); end.Sub(start) != 23*time.Hour {
		t.Fatalf("expected 23h spring-forward day, got %s", end.Sub(start))
	}
	if start, end := DayBounds(Date{2026, time.October, 25}, loc); end.Sub(start) != 25*time.Hour {
		t.Fatalf("expected 25h fall-back day, got %s", end.Sub(start))
	}
}
