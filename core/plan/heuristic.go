package plan

import (
	"time"

	"github.com/prepsched/prepsched/core/model"
)

// StrategyHeuristic and StrategyLP name the allocator that produced a
// result.
const (
	StrategyHeuristic = "heuristic"
	StrategyLP        = "lp"
)

// GreedyAllocator distributes the target hours day by day. The first
// pass gives every usable day an equal quota; subsequent passes top up
// the earliest days first, never beyond the daily cap, so hours are
// spread across the horizon instead of crammed at the end.
//
// The allocator is deterministic: identical input yields an identical
// result.
type GreedyAllocator struct {
	// MaxPasses bounds the top-up loop. The loop terminates earlier on
	// its own because every productive pass carves at least one
	// granularity unit out of finite capacity.
	MaxPasses int
}

// NewGreedyAllocator returns an allocator with the default pass bound.
func NewGreedyAllocator() GreedyAllocator {
	return GreedyAllocator{MaxPasses: 4}
}

// Allocate implements the Allocator interface.
func (a GreedyAllocator) Allocate(slots []model.FreeSlot, pol model.AllocationPolicy) model.ScheduleResult {
	gran := pol.Granularity
	minBlock := model.HoursToDuration(pol.MinBlockHours)
	maxBlock := model.HoursToDuration(pol.MaxBlockHours)
	dailyCap := model.HoursToDuration(pol.DailyCapHours)
	target := model.HoursToDuration(pol.TargetHours)

	days := prepare(slots, pol)
	available := usableDays(days, minBlock, gran)
	if available == 0 {
		return model.ScheduleResult{
			DeficitHours: pol.TargetHours,
			Feasible:     false,
			Strategy:     StrategyHeuristic,
		}
	}

	// Equal share per usable day, rounded up to the granularity and
	// capped by the daily limit.
	perDay := roundUp(target/time.Duration(available), gran)
	quota := minDur(perDay, dailyCap)

	remaining := target
	for _, d := range days {
		if remaining <= 0 {
			break
		}
		dayLeft := quota
		for _, s := range d.slots {
			if dayLeft < gran || remaining < gran {
				break
			}
			took := fill(s, minDur(dayLeft, remaining), minBlock, maxBlock, gran)
			dayLeft -= took
			remaining -= took
		}
	}

	// Top-up passes: earliest day first, up to the daily cap.
	maxPasses := a.MaxPasses
	if maxPasses <= 0 {
		maxPasses = 4
	}
	for pass := 1; pass < maxPasses && remaining >= gran; pass++ {
		var progress time.Duration
		for _, d := range days {
			if remaining < gran {
				break
			}
			capLeft := dailyCap - d.allocated()
			if capLeft < gran {
				continue
			}
			for _, s := range d.slots {
				if capLeft < gran || remaining < gran {
					break
				}
				took := fill(s, minDur(capLeft, remaining), minBlock, maxBlock, gran)
				capLeft -= took
				remaining -= took
				progress += took
			}
		}
		if progress == 0 {
			break
		}
	}

	return collect(days, pol, StrategyHeuristic)
}
