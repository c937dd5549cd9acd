package plan

import (
	"fmt"
	"time"

	"github.com/prepsched/prepsched/core/model"
)

// LPAllocator formulates the allocation as a linear program over
// per-slot hour variables and delegates to a Solver. The continuous
// solution is rounded down to the granularity and materialized into
// blocks; any rounding remainder is re-distributed greedily so the
// result is never worse than its own rounding.
type LPAllocator struct {
	Solver Solver

	// TimeLimit is the solve budget passed to the backend.
	TimeLimit time.Duration
}

// NewLPAllocator returns an LP allocator with a default time budget.
// A nil solver means the backend is unavailable.
func NewLPAllocator(s Solver) *LPAllocator {
	return &LPAllocator{Solver: s, TimeLimit: 5 * time.Second}
}

// AllocateStrict solves the LP and materializes the assignment. It
// returns ErrBackendUnavailable when no solver is configured or the time
// budget is exhausted, and the solver's error when the program cannot be
// solved. No heuristic fallback is applied here.
func (a *LPAllocator) AllocateStrict(slots []model.FreeSlot, pol model.AllocationPolicy) (model.ScheduleResult, error) {
	if a == nil || a.Solver == nil {
		return model.ScheduleResult{}, ErrBackendUnavailable
	}

	gran := pol.Granularity
	minBlock := model.HoursToDuration(pol.MinBlockHours)
	maxBlock := model.HoursToDuration(pol.MaxBlockHours)
	dailyCap := model.HoursToDuration(pol.DailyCapHours)
	target := model.HoursToDuration(pol.TargetHours)

	days := prepare(slots, pol)
	if usableDays(days, minBlock, gran) == 0 {
		return model.ScheduleResult{}, ErrInfeasible
	}

	m, vars := buildModel(days, pol)
	sol, err := a.Solver.Solve(m, a.TimeLimit)
	if err != nil {
		if err == ErrBackendUnavailable {
			return model.ScheduleResult{}, err
		}
		return model.ScheduleResult{}, fmt.Errorf("lp solve: %w", err)
	}

	// Materialize the continuous assignment at granularity.
	remaining := target
	for i, s := range vars {
		amt := roundDown(model.HoursToDuration(sol[i]), gran)
		if amt <= 0 {
			continue
		}
		remaining -= fill(s, minDur(amt, remaining), minBlock, maxBlock, gran)
	}

	// Rounding can strand a few granularity units; hand them to the
	// earliest day with headroom, mirroring the heuristic top-up.
	for _, d := range days {
		if remaining < gran {
			break
		}
		capLeft := dailyCap - d.allocated()
		for _, s := range d.slots {
			if capLeft < gran || remaining < gran {
				break
			}
			took := fill(s, minDur(capLeft, remaining), minBlock, maxBlock, gran)
			capLeft -= took
			remaining -= took
		}
	}

	return collect(days, pol, StrategyLP), nil
}

// Allocate implements the Allocator interface, falling back to the
// greedy heuristic whenever the strict path fails.
func (a *LPAllocator) Allocate(slots []model.FreeSlot, pol model.AllocationPolicy) model.ScheduleResult {
	res, err := a.AllocateStrict(slots, pol)
	if err != nil {
		return NewGreedyAllocator().Allocate(slots, pol)
	}
	return res
}

// buildModel flattens the day groups into LP variables. Objective
// weights grow with the calendar day offset, with a small intra-day
// epsilon so equal-capacity slots resolve deterministically in favor of
// the earlier one.
func buildModel(days []*daySlots, pol model.AllocationPolicy) (Model, []*workSlot) {
	day0 := model.DayOf(pol.HorizonStart)
	var m Model
	var vars []*workSlot
	for di, d := range days {
		offset := d.day.Sub(day0).Hours() / 24
		for si, s := range d.slots {
			m.Caps = append(m.Caps, model.DurationToHours(s.remaining()))
			m.Day = append(m.Day, di)
			m.Weights = append(m.Weights, offset+float64(si)*1e-3)
			vars = append(vars, s)
		}
	}
	m.NumDays = len(days)
	m.DayCap = pol.DailyCapHours
	m.Target = pol.TargetHours
	return m, vars
}
