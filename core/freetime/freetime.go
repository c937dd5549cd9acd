// Package freetime derives availability slots from a day schedule and a
// working-window policy.
package freetime

import (
	"time"

	"github.com/prepsched/prepsched/core/model"
)

// Compute subtracts each day's busy intervals from the configured working
// window and returns the remaining free slots for every day of the
// planning horizon, in chronological order.
//
// Days excluded by the working window yield no slots. Slots shorter than
// the minimum block length are retained; skipping them is the
// allocator's job.
func Compute(sched model.DaySchedule, pol model.AllocationPolicy) []model.FreeSlot {
	var slots []model.FreeSlot
	for day := model.DayOf(pol.HorizonStart); day.Before(pol.HorizonEnd); day = day.AddDate(0, 0, 1) {
		window, ok := pol.WorkingWindow.ForDay(day)
		if !ok {
			continue
		}
		start := day.Add(window.Start)
		end := day.Add(window.End)
		if start.Before(pol.HorizonStart) {
			start = pol.HorizonStart
		}
		if end.After(pol.HorizonEnd) {
			end = pol.HorizonEnd
		}
		if !start.Before(end) {
			continue
		}
		slots = append(slots, dayFree(day, start, end, sched[day])...)
	}
	return slots
}

// dayFree walks the day's merged busy intervals and emits the gaps that
// fall inside [start, end).
func dayFree(day, start, end time.Time, busy []model.TimeInterval) []model.FreeSlot {
	var slots []model.FreeSlot
	cur := start
	for _, iv := range busy {
		if !iv.End.After(cur) {
			continue
		}
		if !iv.Start.Before(end) {
			break
		}
		if iv.Start.After(cur) {
			slots = append(slots, model.FreeSlot{Start: cur, End: iv.Start, Day: day})
		}
		if iv.End.After(cur) {
			cur = iv.End
		}
	}
	if cur.Before(end) {
		slots = append(slots, model.FreeSlot{Start: cur, End: end, Day: day})
	}
	return slots
}
