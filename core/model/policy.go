package model

import (
	"fmt"
	"time"
)

// ClockRange is a window within a single day, expressed as offsets from
// midnight. The zero value means "no window".
type ClockRange struct {
	Start time.Duration
	End   time.Duration
}

// IsZero reports whether no window is configured.
func (r ClockRange) IsZero() bool { return r.Start == 0 && r.End == 0 }

// WorkingWindow configures the daily availability window. Weekend days may
// carry a different window and individual weekdays can be excluded
// entirely.
type WorkingWindow struct {
	Weekday  ClockRange
	Weekend  ClockRange
	Excluded map[time.Weekday]bool
}

// ForDay returns the window applying to the given day and whether the day
// is schedulable at all.
func (w WorkingWindow) ForDay(day time.Time) (ClockRange, bool) {
	wd := day.Weekday()
	if w.Excluded[wd] {
		return ClockRange{}, false
	}
	r := w.Weekday
	if wd == time.Saturday || wd == time.Sunday {
		r = w.Weekend
	}
	if r.IsZero() || r.End <= r.Start {
		return ClockRange{}, false
	}
	return r, true
}

// AllocationPolicy carries every knob of a single scheduling request. It
// is passed explicitly into each operation; the core holds no global
// state.
type AllocationPolicy struct {
	TargetHours   float64
	MinBlockHours float64
	MaxBlockHours float64
	DailyCapHours float64

	// BufferBefore is the mandatory gap between the latest prep block
	// and EventStart.
	BufferBefore time.Duration

	// Granularity is the minimum block increment. Block durations are
	// always a positive multiple of it.
	Granularity time.Duration

	WorkingWindow WorkingWindow
	HorizonStart  time.Time
	HorizonEnd    time.Time

	// EventStart is the start of the event being prepared for. A zero
	// value disables buffer enforcement.
	EventStart time.Time
}

// Validate checks the structural soundness of the policy.
func (p AllocationPolicy) Validate() error {
	if p.TargetHours <= 0 {
		return fmt.Errorf("target hours must be positive")
	}
	if p.Granularity <= 0 {
		return fmt.Errorf("granularity must be positive")
	}
	if p.MinBlockHours <= 0 || p.MaxBlockHours < p.MinBlockHours {
		return fmt.Errorf("block bounds invalid: min %.2f max %.2f", p.MinBlockHours, p.MaxBlockHours)
	}
	if p.DailyCapHours <= 0 {
		return fmt.Errorf("daily cap must be positive")
	}
	if !p.HorizonStart.Before(p.HorizonEnd) {
		return fmt.Errorf("horizon start must precede horizon end")
	}
	for _, h := range []float64{p.TargetHours, p.MinBlockHours, p.MaxBlockHours, p.DailyCapHours} {
		if HoursToDuration(h)%p.Granularity != 0 {
			return fmt.Errorf("%.2fh is not a multiple of the %s granularity", h, p.Granularity)
		}
	}
	return nil
}

// BufferBound returns the latest admissible block end, or the zero time
// when no event start is set.
func (p AllocationPolicy) BufferBound() time.Time {
	if p.EventStart.IsZero() {
		return time.Time{}
	}
	return p.EventStart.Add(-p.BufferBefore)
}

// HoursToDuration converts fractional hours to a duration.
func HoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// DurationToHours converts a duration to fractional hours.
func DurationToHours(d time.Duration) float64 {
	return d.Hours()
}
