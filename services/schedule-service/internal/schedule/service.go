// Package schedule orchestrates the slot engine and the agenda compositor
// over already-fetched snapshots. Every computation is a pure function of its
// inputs: no shared state, no locking, safe for concurrent callers. It does
// not reserve anything — two callers can see the same free slot, and the
// booking write (outside this service) stays the sole arbiter.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/agenda"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/availability"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/model"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/workcal"
)

// Collaborator read contracts. I/O happens behind these before the pure
// computation runs; implementations live in internal/storage.
type (
	HoursSource interface {
		StaffWeekHours(ctx context.Context, shopID, staffID string) (model.WeekHours, error)
	}
	ZoneSource interface {
		// ShopZone returns the shop's IANA zone name, or "" when unset.
		ShopZone(ctx context.Context, shopID string) (string, error)
	}
	AppointmentSource interface {
		// ListBlocking returns non-cancelled appointments whose absolute
		// interval overlaps [from, to).
		ListBlocking(ctx context.Context, shopID, staffID string, from, to time.Time) ([]model.Appointment, error)
	}
	TimeOffSource interface {
		// ListForDay returns active time off relevant to the date: ranged
		// records overlapping [dayStart, dayEnd), full-day records for the
		// date, and all recurring records (weekday filtering happens in the
		// collector).
		ListForDay(ctx context.Context, shopID, staffID string, date timezone.Date, dayStart, dayEnd time.Time) ([]model.TimeOff, error)
	}
)

type Service struct {
	hours       HoursSource
	zones       ZoneSource
	appts       AppointmentSource
	timeOff     TimeOffSource
	defaultZone string
	logger      *slog.Logger
}

func New(hours HoursSource, zones ZoneSource, appts AppointmentSource, timeOff TimeOffSource, defaultZone string, logger *slog.Logger) *Service {
	return &Service{
		hours:       hours,
		zones:       zones,
		appts:       appts,
		timeOff:     timeOff,
		defaultZone: defaultZone,
		logger:      logger,
	}
}

type SlotsResult struct {
	Date  timezone.Date
	Zone  string
	Slots []availability.Slot
}

type AgendaResult struct {
	Date    timezone.Date
	Zone    string
	Entries []agenda.Entry
}

// ComputeSlots returns the offerable slots for one staff member and date.
// A non-working day is a valid empty result, not an error.
func (s *Service) ComputeSlots(ctx context.Context, shopID, staffID string, date timezone.Date, scheme availability.Scheme) (SlotsResult, error) {
	if err := scheme.Validate(); err != nil {
		return SlotsResult{}, err
	}

	zone, loc, err := s.resolveZone(ctx, shopID)
	if err != nil {
		return SlotsResult{}, err
	}
	res := SlotsResult{Date: date, Zone: zone}

	week, err := s.hours.StaffWeekHours(ctx, shopID, staffID)
	if err != nil {
		return SlotsResult{}, fmt.Errorf("load week hours: %w", err)
	}
	win, err := workcal.Resolve(week, date, loc)
	if err != nil {
		return SlotsResult{}, fmt.Errorf("resolve working window: %w", err)
	}
	if win == nil {
		s.logger.Info("no working window", "shop_id", shopID, "staff_id", staffID, "date", date.String())
		return res, nil
	}

	dayStart, dayEnd := timezone.DayBounds(date, loc)
	appts, err := s.appts.ListBlocking(ctx, shopID, staffID, win.Start.UTC(), win.End.UTC())
	if err != nil {
		return SlotsResult{}, fmt.Errorf("load appointments: %w", err)
	}
	timeOff, err := s.timeOff.ListForDay(ctx, shopID, staffID, date, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return SlotsResult{}, fmt.Errorf("load time off: %w", err)
	}

	blockers, err := availability.CollectBlockers(date, loc, appts, timeOff, timezone.ShiftForward)
	if err != nil {
		return SlotsResult{}, fmt.Errorf("collect blockers: %w", err)
	}
	slots, err := availability.Generate(win, blockers, scheme)
	if err != nil {
		return SlotsResult{}, err
	}
	res.Slots = slots
	return res, nil
}

// ComputeAgenda returns the merged day timeline for one staff member.
func (s *Service) ComputeAgenda(ctx context.Context, shopID, staffID string, date timezone.Date, includeWindow bool) (AgendaResult, error) {
	zone, loc, err := s.resolveZone(ctx, shopID)
	if err != nil {
		return AgendaResult{}, err
	}
	res := AgendaResult{Date: date, Zone: zone}

	var win *workcal.Window
	if includeWindow {
		week, err := s.hours.StaffWeekHours(ctx, shopID, staffID)
		if err != nil {
			return AgendaResult{}, fmt.Errorf("load week hours: %w", err)
		}
		if win, err = workcal.Resolve(week, date, loc); err != nil {
			return AgendaResult{}, fmt.Errorf("resolve working window: %w", err)
		}
	}

	dayStart, dayEnd := timezone.DayBounds(date, loc)
	appts, err := s.appts.ListBlocking(ctx, shopID, staffID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return AgendaResult{}, fmt.Errorf("load appointments: %w", err)
	}
	timeOff, err := s.timeOff.ListForDay(ctx, shopID, staffID, date, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return AgendaResult{}, fmt.Errorf("load time off: %w", err)
	}

	blockers, err := availability.CollectBlockers(date, loc, appts, timeOff, timezone.ShiftForward)
	if err != nil {
		return AgendaResult{}, fmt.Errorf("collect blockers: %w", err)
	}
	res.Entries = agenda.Compose(win, blockers, date, loc, includeWindow)
	return res, nil
}

func (s *Service) resolveZone(ctx context.Context, shopID string) (string, *time.Location, error) {
	zone, err := s.zones.ShopZone(ctx, shopID)
	if err != nil {
		return "", nil, fmt.Errorf("load shop zone: %w", err)
	}
	if zone == "" {
		zone = s.defaultZone
	}
	loc, err := timezone.LoadZone(zone)
	if err != nil {
		return "", nil, err
	}
	return zone, loc, nil
}
