package plan

import "github.com/prepsched/prepsched/core/model"

// Spread computes the lateness-weighted hour sum of a schedule: every
// block contributes its hours multiplied by the day offset from the
// horizon start. Lower values mean the hours sit earlier in the horizon.
// The LP objective minimizes the same quantity, so heuristic and
// optimized candidates compare on equal terms.
func Spread(res model.ScheduleResult, pol model.AllocationPolicy) float64 {
	day0 := model.DayOf(pol.HorizonStart)
	var m float64
	for _, b := range res.Blocks {
		offset := b.Day.Sub(day0).Hours() / 24
		m += model.DurationToHours(b.Duration()) * offset
	}
	return m
}
