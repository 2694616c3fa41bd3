package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/model"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/schedule"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/storage"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
)

type stubSources struct {
	zone    string
	zoneErr error
	week    model.WeekHours
	weekErr error
	appts   []model.Appointment
	timeOff []model.TimeOff
}

func (s *stubSources) ShopZone(context.Context, string) (string, error) {
	return s.zone, s.zoneErr
}

func (s *stubSources) StaffWeekHours(context.Context, string, string) (model.WeekHours, error) {
	return s.week, s.weekErr
}

func (s *stubSources) ListBlocking(context.Context, string, string, time.Time, time.Time) ([]model.Appointment, error) {
	return s.appts, nil
}

func (s *stubSources) ListForDay(context.Context, string, string, timezone.Date, time.Time, time.Time) ([]model.TimeOff, error) {
	return s.timeOff, nil
}

func newTestHandler(src *stubSources) *ScheduleHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := schedule.New(src, src, src, src, "Europe/Amsterdam", logger)
	return NewScheduleHandler(svc, logger)
}

func workingWeek() *stubSources {
	var week model.WeekHours
	// 2026-01-07 is a Wednesday.
	week[time.Wednesday] = model.DayHours{Working: true, Start: "09:00", End: "12:00"}
	return &stubSources{zone: "Europe/Amsterdam", week: week}
}

func TestSlotsOK(t *testing.T) {
	h := newTestHandler(workingWeek())

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/public/slots?shop_id=s1&staff_id=b1&date=2026-01-07", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var resp slotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Date != "2026-01-07" || resp.Zone != "Europe/Amsterdam" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	// 09:00-12:00 empty day: 6 coarse + 12 fine.
	if len(resp.Slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(resp.Slots))
	}
	first := resp.Slots[0]
	if first.GranularityMinutes != 30 {
		t.Fatalf("expected coarse slots first, got %+v", first)
	}
	if first.StartLocal != "2026-01-07T09:00:00+01:00" || first.StartUTC != "2026-01-07T08:00:00Z" {
		t.Fatalf("unexpected first slot times: %+v", first)
	}
}

func TestSlotsCustomScheme(t *testing.T) {
	h := newTestHandler(workingWeek())

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/public/slots?shop_id=s1&staff_id=b1&date=2026-01-07&fine_minutes=30&coarse_minutes=60", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp slotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	// 3 one-hour slots plus 6 half-hour slots.
	if len(resp.Slots) != 9 {
		t.Fatalf("expected 9 slots, got %d", len(resp.Slots))
	}
}

func TestSlotsValidation(t *testing.T) {
	h := newTestHandler(workingWeek())

	cases := []struct {
		name  string
		query string
	}{
		{"missing shop", "staff_id=b1&date=2026-01-07"},
		{"missing staff", "shop_id=s1&date=2026-01-07"},
		{"missing date", "shop_id=s1&staff_id=b1"},
		{"bad date", "shop_id=s1&staff_id=b1&date=07-01-2026"},
		{"bad fine", "shop_id=s1&staff_id=b1&date=2026-01-07&fine_minutes=abc"},
		{"negative coarse", "shop_id=s1&staff_id=b1&date=2026-01-07&coarse_minutes=-30"},
		{"incompatible scheme", "shop_id=s1&staff_id=b1&date=2026-01-07&fine_minutes=20&coarse_minutes=30"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?"+tc.query, nil)
		rec := httptest.NewRecorder()
		h.Slots(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestSlotsMethodNotAllowed(t *testing.T) {
	h := newTestHandler(workingWeek())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/slots", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestSlotsNotFound(t *testing.T) {
	src := workingWeek()
	src.weekErr = storage.ErrStaffNotFound
	h := newTestHandler(src)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/public/slots?shop_id=s1&staff_id=ghost&date=2026-01-07", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown staff, got %d", rec.Code)
	}

	src = workingWeek()
	src.zoneErr = storage.ErrShopNotFound
	h = newTestHandler(src)
	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/public/slots?shop_id=ghost&staff_id=b1&date=2026-01-07", nil)
	rec = httptest.NewRecorder()
	h.Slots(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown shop, got %d", rec.Code)
	}
}

func TestAgendaOK(t *testing.T) {
	src := workingWeek()
	loc, _ := time.LoadLocation("Europe/Amsterdam")
	src.appts = []model.Appointment{
		{
			ID: "a1", Status: model.StatusScheduled, DurationMinutes: 30,
			StartTime: time.Date(2026, time.January, 7, 10, 0, 0, 0, loc),
			EndTime:   time.Date(2026, time.January, 7, 10, 30, 0, 0, loc),
		},
	}
	h := newTestHandler(src)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/agenda?shop_id=s1&staff_id=b1&date=2026-01-07", nil)
	rec := httptest.NewRecorder()
	h.Agenda(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp agendaResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Count != 2 || len(resp.Entries) != 2 {
		t.Fatalf("expected window + appointment, got %+v", resp)
	}
	if resp.Entries[0].Kind != "workingWindow" || resp.Entries[1].Kind != "appointment" {
		t.Fatalf("unexpected entry kinds: %+v", resp.Entries)
	}
	if resp.Entries[1].Meta.ID != "a1" || resp.Entries[1].Meta.Status != "scheduled" {
		t.Fatalf("unexpected meta: %+v", resp.Entries[1].Meta)
	}
}

func TestAgendaExcludeWindow(t *testing.T) {
	h := newTestHandler(workingWeek())

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/agenda?shop_id=s1&staff_id=b1&date=2026-01-07&include_working_window=false", nil)
	rec := httptest.NewRecorder()
	h.Agenda(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp agendaResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Count != 0 {
		t.Fatalf("expected empty agenda, got %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/agenda?shop_id=s1&staff_id=b1&date=2026-01-07&include_working_window=maybe", nil)
	rec = httptest.NewRecorder()
	h.Agenda(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad flag, got %d", rec.Code)
	}
}
