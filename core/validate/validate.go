// Package validate checks produced schedules against every hard
// constraint before they are handed back to the caller. It reports named
// violations and never fixes anything.
package validate

import (
	"fmt"
	"math"
	"time"

	"github.com/prepsched/prepsched/core/model"
)

const hoursTolerance = 1e-9

// Check verifies the result against the busy schedule and the policy.
// An empty return value means the schedule satisfies all hard
// constraints.
func Check(res model.ScheduleResult, sched model.DaySchedule, pol model.AllocationPolicy) []model.Violation {
	var vs []model.Violation
	vs = append(vs, checkBusyOverlap(res, sched)...)
	vs = append(vs, checkBlockOverlap(res)...)
	vs = append(vs, checkDailyCap(res, pol)...)
	vs = append(vs, checkBuffer(res, pol)...)
	vs = append(vs, checkHorizon(res, pol)...)
	vs = append(vs, checkBounds(res, pol)...)
	vs = append(vs, checkConservation(res)...)
	return vs
}

func checkBusyOverlap(res model.ScheduleResult, sched model.DaySchedule) []model.Violation {
	// Overlap is a property of instants. Blocks are checked against every
	// day's busy intervals so a day-key mismatch (for example schedules
	// built from mixed UTC offsets) can never hide an overlap.
	var vs []model.Violation
	for _, b := range res.Blocks {
		for _, day := range sched.Days() {
			for _, busy := range sched[day] {
				if b.Interval().Overlaps(busy) {
					vs = append(vs, model.Violation{
						Code:   model.ViolationBusyOverlap,
						Detail: fmt.Sprintf("block %s-%s overlaps busy %s-%s", stamp(b.Start), stamp(b.End), stamp(busy.Start), stamp(busy.End)),
					})
				}
			}
		}
	}
	return vs
}

func checkBlockOverlap(res model.ScheduleResult) []model.Violation {
	var vs []model.Violation
	for i := 0; i < len(res.Blocks); i++ {
		for j := i + 1; j < len(res.Blocks); j++ {
			if res.Blocks[i].Interval().Overlaps(res.Blocks[j].Interval()) {
				vs = append(vs, model.Violation{
					Code:   model.ViolationBlockOverlap,
					Detail: fmt.Sprintf("blocks %s-%s and %s-%s overlap", stamp(res.Blocks[i].Start), stamp(res.Blocks[i].End), stamp(res.Blocks[j].Start), stamp(res.Blocks[j].End)),
				})
			}
		}
	}
	return vs
}

func checkDailyCap(res model.ScheduleResult, pol model.AllocationPolicy) []model.Violation {
	perDay := make(map[time.Time]time.Duration)
	for _, b := range res.Blocks {
		perDay[b.Day] += b.Duration()
	}
	cap := model.HoursToDuration(pol.DailyCapHours)
	var vs []model.Violation
	for day, sum := range perDay {
		if sum > cap {
			vs = append(vs, model.Violation{
				Code:   model.ViolationDailyCap,
				Detail: fmt.Sprintf("%s carries %.2fh over the %.2fh cap", day.Format("2006-01-02"), model.DurationToHours(sum), pol.DailyCapHours),
			})
		}
	}
	return vs
}

func checkBuffer(res model.ScheduleResult, pol model.AllocationPolicy) []model.Violation {
	bound := pol.BufferBound()
	if bound.IsZero() {
		return nil
	}
	var vs []model.Violation
	for _, b := range res.Blocks {
		if b.End.After(bound) {
			vs = append(vs, model.Violation{
				Code:   model.ViolationBuffer,
				Detail: fmt.Sprintf("block ending %s breaches the buffer bound %s", stamp(b.End), stamp(bound)),
			})
		}
	}
	return vs
}

func checkHorizon(res model.ScheduleResult, pol model.AllocationPolicy) []model.Violation {
	var vs []model.Violation
	for _, b := range res.Blocks {
		if b.Start.Before(pol.HorizonStart) || b.End.After(pol.HorizonEnd) {
			vs = append(vs, model.Violation{
				Code:   model.ViolationHorizon,
				Detail: fmt.Sprintf("block %s-%s lies outside the horizon", stamp(b.Start), stamp(b.End)),
			})
		}
	}
	return vs
}

func checkBounds(res model.ScheduleResult, pol model.AllocationPolicy) []model.Violation {
	minBlock := model.HoursToDuration(pol.MinBlockHours)
	maxBlock := model.HoursToDuration(pol.MaxBlockHours)
	var vs []model.Violation
	for _, b := range res.Blocks {
		d := b.Duration()
		if d < minBlock || d > maxBlock || (pol.Granularity > 0 && d%pol.Granularity != 0) {
			vs = append(vs, model.Violation{
				Code:   model.ViolationBlockBounds,
				Detail: fmt.Sprintf("block %s-%s has invalid length %s", stamp(b.Start), stamp(b.End), d),
			})
		}
	}
	return vs
}

func checkConservation(res model.ScheduleResult) []model.Violation {
	var sum time.Duration
	for _, b := range res.Blocks {
		sum += b.Duration()
	}
	if math.Abs(model.DurationToHours(sum)-res.AllocatedHours) > hoursTolerance {
		return []model.Violation{{
			Code:   model.ViolationHoursMismatch,
			Detail: fmt.Sprintf("result claims %.4fh but blocks sum to %.4fh", res.AllocatedHours, model.DurationToHours(sum)),
		}}
	}
	return nil
}

func stamp(t time.Time) string { return t.Format(time.RFC3339) }
