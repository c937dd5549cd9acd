package model

import "time"

// FreeSlot is a maximal interval of availability within the working
// window on a given day. Day is the midnight of the slot's day.
type FreeSlot struct {
	Start time.Time
	End   time.Time
	Day   time.Time
}

// Duration returns the slot length.
func (s FreeSlot) Duration() time.Duration { return s.End.Sub(s.Start) }

// PrepBlock is a committed, non-overlapping sub-interval of a FreeSlot
// assigned for preparation work.
type PrepBlock struct {
	Start time.Time
	End   time.Time
	Day   time.Time
}

// Duration returns the block length.
func (b PrepBlock) Duration() time.Duration { return b.End.Sub(b.Start) }

// Interval returns the block as a plain interval.
func (b PrepBlock) Interval() TimeInterval { return TimeInterval{Start: b.Start, End: b.End} }

// Violation names a hard-constraint breach found by the validator.
type Violation struct {
	Code   string
	Detail string
}

func (v Violation) String() string { return v.Code + ": " + v.Detail }

// Validator violation codes.
const (
	ViolationBusyOverlap   = "busy_overlap"
	ViolationBlockOverlap  = "block_overlap"
	ViolationDailyCap      = "daily_cap"
	ViolationBuffer        = "buffer"
	ViolationHorizon       = "horizon"
	ViolationHoursMismatch = "hours_mismatch"
	ViolationBlockBounds   = "block_bounds"
)

// ScheduleResult is the outcome of one allocation request. Infeasibility
// is a first-class result: Feasible is false and DeficitHours carries the
// shortfall, but no error is raised.
type ScheduleResult struct {
	Blocks         []PrepBlock
	AllocatedHours float64
	DeficitHours   float64
	Feasible       bool

	// Strategy names the allocator that produced the result.
	Strategy string

	// SpreadMetric quantifies how late the allocated hours sit in the
	// horizon; lower is better spread.
	SpreadMetric float64

	// Violations carries validator diagnostics when a candidate failed
	// a hard-constraint check and was downgraded.
	Violations []Violation
}

// HoursOnDay sums the block hours committed on the given day.
func (r ScheduleResult) HoursOnDay(day time.Time) float64 {
	var d time.Duration
	for _, b := range r.Blocks {
		if b.Day.Equal(day) {
			d += b.Duration()
		}
	}
	return DurationToHours(d)
}

// DaysUsed returns the number of distinct days carrying at least one
// block.
func (r ScheduleResult) DaysUsed() int {
	seen := make(map[time.Time]struct{})
	for _, b := range r.Blocks {
		seen[b.Day] = struct{}{}
	}
	return len(seen)
}
