package calendar

import (
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/prepsched/prepsched/core/model"
)

// EventInterval converts one API event into a busy interval. All-day
// events (date-only payloads) block their whole days. The second return
// value is false for events carrying no usable time information, such as
// cancelled instances.
func EventInterval(ev *gcal.Event) (model.TimeInterval, bool, error) {
	if ev == nil || ev.Start == nil || ev.End == nil {
		return model.TimeInterval{}, false, nil
	}
	if ev.Status == "cancelled" {
		return model.TimeInterval{}, false, nil
	}

	start, allDayStart, err := parseEventTime(ev.Start)
	if err != nil {
		return model.TimeInterval{}, false, fmt.Errorf("start: %w", err)
	}
	end, _, err := parseEventTime(ev.End)
	if err != nil {
		return model.TimeInterval{}, false, fmt.Errorf("end: %w", err)
	}
	if allDayStart {
		// The API reports all-day ends as the day after the last day,
		// which already matches the half-open convention.
		start = model.DayOf(start)
		end = model.DayOf(end)
	}
	iv := model.TimeInterval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return model.TimeInterval{}, false, err
	}
	return iv, true, nil
}

// parseEventTime handles both dateTime and date-only payloads, including
// the "Z" UTC suffix.
func parseEventTime(t *gcal.EventDateTime) (time.Time, bool, error) {
	switch {
	case t == nil:
		return time.Time{}, false, fmt.Errorf("missing event time")
	case t.DateTime != "":
		raw := t.DateTime
		if strings.HasSuffix(raw, "Z") {
			raw = strings.TrimSuffix(raw, "Z") + "+00:00"
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parse dateTime %q: %w", t.DateTime, err)
		}
		return ts, false, nil
	case t.Date != "":
		ts, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parse date %q: %w", t.Date, err)
		}
		return ts, true, nil
	default:
		return time.Time{}, false, fmt.Errorf("event time has neither dateTime nor date")
	}
}
