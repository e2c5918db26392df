package api

import (
	"log/slog"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stickcal/stickcal/internal/calendar"
	"github.com/stickcal/stickcal/pkg/httputil"
)

// ExportICS serializes the user's events as an iCalendar feed. Events
// without a time become all-day VEVENTs; completed ones carry
// STATUS:CONFIRMED so importing calendars can tell them apart.
func (s *Server) ExportICS(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("ics export error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	events, err := s.eventsService.OwnerEvents(r.Context(), uid)
	if err != nil {
		logger.Error("ics export error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "error while getting events", nil)
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//stickcal//calendar//EN")
	for _, event := range events {
		y, m, d, err := calendar.ParseDateKey(event.Date)
		if err != nil {
			logger.Error("ics export: skipping event with bad date key", slog.String("event_id", event.ID.String()))
			continue
		}
		ve := cal.AddEvent(event.ID.String())
		ve.SetSummary(event.Title)
		ve.SetDtStampTime(event.CreatedAt.UTC())
		if event.Time != "" {
			hour := int(event.Time[0]-'0')*10 + int(event.Time[1]-'0')
			minute := int(event.Time[3]-'0')*10 + int(event.Time[4]-'0')
			start := time.Date(y, time.Month(m), d, hour, minute, 0, 0, time.UTC)
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(time.Hour))
		} else {
			start := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
		}
		if event.Completed {
			ve.SetStatus(ical.ObjectStatusConfirmed)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="stickcal.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write([]byte(cal.Serialize())); err != nil {
		logger.Error("ics export: write failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("ics export provided")
}
