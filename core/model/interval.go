package model

import (
	"fmt"
	"sort"
	"time"
)

// TimeInterval is a half-open time range [Start, End). Values are
// immutable once constructed.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// InvalidIntervalError reports a malformed input interval where the start
// is not strictly before the end.
type InvalidIntervalError struct {
	Start time.Time
	End   time.Time
}

func (e InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval: start %s is not before end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Validate checks that the interval is well formed.
func (i TimeInterval) Validate() error {
	if !i.Start.Before(i.End) {
		return InvalidIntervalError{Start: i.Start, End: i.End}
	}
	return nil
}

// Duration returns the interval length.
func (i TimeInterval) Duration() time.Duration { return i.End.Sub(i.Start) }

// Overlaps reports whether two half-open intervals intersect.
func (i TimeInterval) Overlaps(o TimeInterval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// DayOf truncates t to midnight in its own location. It is the canonical
// key for per-day grouping.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaySchedule maps a calendar day (midnight) to the merged, sorted busy
// intervals of that day.
type DaySchedule map[time.Time][]TimeInterval

// Days returns the schedule's days in chronological order.
func (s DaySchedule) Days() []time.Time {
	days := make([]time.Time, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
