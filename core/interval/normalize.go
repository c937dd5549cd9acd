package interval

import (
	"sort"
	"time"

	"github.com/prepsched/prepsched/core/model"
)

// Normalize converts raw busy intervals into the canonical per-day
// representation keyed by UTC days. See NormalizeIn.
func Normalize(raw []model.TimeInterval) (model.DaySchedule, error) {
	return NormalizeIn(raw, time.UTC)
}

// NormalizeIn converts raw busy intervals into the canonical per-day
// representation: every timestamp is first converted to loc so intervals
// arriving with mixed UTC offsets share day keys, then intervals
// crossing midnight are split at day boundaries, each day's intervals
// are sorted by start and overlapping or touching intervals are merged.
// The result is independent of the input order.
//
// loc must match the location of the horizon the schedule is looked up
// against; a nil loc means UTC.
//
// A model.InvalidIntervalError is returned for any interval whose start
// is not strictly before its end; no partial result is produced.
func NormalizeIn(raw []model.TimeInterval, loc *time.Location) (model.DaySchedule, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, iv := range raw {
		if err := iv.Validate(); err != nil {
			return nil, err
		}
	}

	sched := make(model.DaySchedule)
	for _, iv := range raw {
		iv = model.TimeInterval{Start: iv.Start.In(loc), End: iv.End.In(loc)}
		for _, seg := range splitByDay(iv) {
			day := model.DayOf(seg.Start)
			sched[day] = append(sched[day], seg)
		}
	}

	for day, ivs := range sched {
		sched[day] = merge(ivs)
	}
	return sched, nil
}

// splitByDay cuts an interval at midnight boundaries so every segment
// lies within a single calendar day.
func splitByDay(iv model.TimeInterval) []model.TimeInterval {
	var segs []model.TimeInterval
	cur := iv.Start
	for cur.Before(iv.End) {
		next := model.DayOf(cur).AddDate(0, 0, 1)
		if next.After(iv.End) {
			next = iv.End
		}
		segs = append(segs, model.TimeInterval{Start: cur, End: next})
		cur = next
	}
	return segs
}

// merge sorts intervals by start and coalesces overlapping or touching
// neighbours.
func merge(ivs []model.TimeInterval) []model.TimeInterval {
	if len(ivs) == 0 {
		return ivs
	}
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start.Equal(ivs[j].Start) {
			return ivs[i].End.Before(ivs[j].End)
		}
		return ivs[i].Start.Before(ivs[j].Start)
	})
	out := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}
