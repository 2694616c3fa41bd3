package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lucasvdb/agendly/services/schedule-service/internal/availability"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/schedule"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/storage"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/timezone"
)

type ScheduleHandler struct {
	svc    *schedule.Service
	logger *slog.Logger
}

func NewScheduleHandler(svc *schedule.Service, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

type slotItem struct {
	StartLocal         string `json:"start_local"`
	EndLocal           string `json:"end_local"`
	StartUTC           string `json:"start_utc"`
	EndUTC             string `json:"end_utc"`
	GranularityMinutes int    `json:"granularity_minutes"`
}

type slotsResponse struct {
	Date  string     `json:"date"`
	Zone  string     `json:"zone"`
	Slots []slotItem `json:"slots"`
}

type entryMeta struct {
	ID        string `json:"id,omitempty"`
	StaffID   string `json:"staff_id,omitempty"`
	ServiceID string `json:"service_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type agendaItem struct {
	Kind       string    `json:"kind"`
	Subtype    string    `json:"subtype,omitempty"`
	StartLocal string    `json:"start_local"`
	EndLocal   string    `json:"end_local"`
	StartUTC   string    `json:"start_utc"`
	EndUTC     string    `json:"end_utc"`
	Meta       entryMeta `json:"meta"`
}

type agendaResponse struct {
	Date    string       `json:"date"`
	Zone    string       `json:"zone"`
	Count   int          `json:"count"`
	Entries []agendaItem `json:"entries"`
}

// Slots serves GET /api/v1/public/slots.
func (h *ScheduleHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shopID, staffID, date, ok := h.commonParams(w, r)
	if !ok {
		return
	}

	scheme := availability.DefaultScheme()
	if v, ok := queryMinutes(w, r, "fine_minutes"); !ok {
		return
	} else if v > 0 {
		scheme.Fine = time.Duration(v) * time.Minute
	}
	if v, ok := queryMinutes(w, r, "coarse_minutes"); !ok {
		return
	} else if v > 0 {
		scheme.Coarse = time.Duration(v) * time.Minute
	}

	res, err := h.svc.ComputeSlots(r.Context(), shopID, staffID, date, scheme)
	if err != nil {
		h.writeComputeError(w, r, err, "compute slots")
		return
	}

	resp := slotsResponse{
		Date:  res.Date.String(),
		Zone:  res.Zone,
		Slots: make([]slotItem, 0, len(res.Slots)),
	}
	for _, s := range res.Slots {
		resp.Slots = append(resp.Slots, slotItem{
			StartLocal:         s.Start.Format(time.RFC3339),
			EndLocal:           s.End.Format(time.RFC3339),
			StartUTC:           s.Start.UTC().Format(time.RFC3339),
			EndUTC:             s.End.UTC().Format(time.RFC3339),
			GranularityMinutes: int(s.Granularity / time.Minute),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Agenda serves GET /api/v1/agenda.
func (h *ScheduleHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shopID, staffID, date, ok := h.commonParams(w, r)
	if !ok {
		return
	}
	includeWindow := true
	if raw := strings.TrimSpace(r.URL.Query().Get("include_working_window")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid include_working_window", http.StatusBadRequest)
			return
		}
		includeWindow = v
	}

	res, err := h.svc.ComputeAgenda(r.Context(), shopID, staffID, date, includeWindow)
	if err != nil {
		h.writeComputeError(w, r, err, "compute agenda")
		return
	}

	resp := agendaResponse{
		Date:    res.Date.String(),
		Zone:    res.Zone,
		Count:   len(res.Entries),
		Entries: make([]agendaItem, 0, len(res.Entries)),
	}
	for _, e := range res.Entries {
		resp.Entries = append(resp.Entries, agendaItem{
			Kind:       string(e.Kind),
			Subtype:    e.Subtype,
			StartLocal: e.Start.Format(time.RFC3339),
			EndLocal:   e.End.Format(time.RFC3339),
			StartUTC:   e.Start.UTC().Format(time.RFC3339),
			EndUTC:     e.End.UTC().Format(time.RFC3339),
			Meta: entryMeta{
				ID:        e.Meta.ID,
				StaffID:   e.Meta.StaffID,
				ServiceID: e.Meta.ServiceID,
				Status:    e.Meta.Status,
				Reason:    e.Meta.Reason,
			},
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ScheduleHandler) commonParams(w http.ResponseWriter, r *http.Request) (shopID, staffID string, date timezone.Date, ok bool) {
	q := r.URL.Query()
	shopID = strings.TrimSpace(q.Get("shop_id"))
	staffID = strings.TrimSpace(q.Get("staff_id"))
	dateStr := strings.TrimSpace(q.Get("date"))
	if shopID == "" || staffID == "" || dateStr == "" {
		http.Error(w, "shop_id, staff_id, and date are required", http.StatusBadRequest)
		return "", "", timezone.Date{}, false
	}
	date, err := timezone.ParseDate(dateStr)
	if err != nil {
		http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
		return "", "", timezone.Date{}, false
	}
	return shopID, staffID, date, true
}

func (h *ScheduleHandler) writeComputeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, storage.ErrStaffNotFound):
		http.Error(w, "staff not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrShopNotFound):
		http.Error(w, "shop not found", http.StatusNotFound)
	case errors.Is(err, availability.ErrInvalidScheme),
		errors.Is(err, timezone.ErrInvalidZone),
		errors.Is(err, timezone.ErrAmbiguousTime),
		errors.Is(err, timezone.ErrNonexistentTime):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(op+" failed", "err", err, "path", r.URL.Path)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func queryMinutes(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		http.Error(w, "invalid "+key, http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
