package plan

import (
	"time"

	"github.com/prepsched/prepsched/core/model"
)

// Allocator turns free slots and a policy into a candidate schedule.
// Infeasibility is expressed in the result, never as an error.
type Allocator interface {
	Allocate(slots []model.FreeSlot, pol model.AllocationPolicy) model.ScheduleResult
}

// workSlot tracks carving progress within a single free slot. Blocks are
// carved front to back, so the cursor always equals the end of the last
// block.
type workSlot struct {
	start time.Time
	end   time.Time
	day   time.Time

	cursor time.Time
	blocks []model.PrepBlock
}

func (s *workSlot) remaining() time.Duration { return s.end.Sub(s.cursor) }

func (s *workSlot) allocated() time.Duration {
	var d time.Duration
	for _, b := range s.blocks {
		d += b.Duration()
	}
	return d
}

// daySlots groups a day's work slots in chronological order.
type daySlots struct {
	day   time.Time
	slots []*workSlot
}

func (d *daySlots) allocated() time.Duration {
	var sum time.Duration
	for _, s := range d.slots {
		sum += s.allocated()
	}
	return sum
}

// prepare clips the free slots at the buffer bound and groups them by
// day, preserving chronological order. Slots entirely past the bound are
// dropped here; the allocators never see them.
func prepare(slots []model.FreeSlot, pol model.AllocationPolicy) []*daySlots {
	bound := pol.BufferBound()
	var days []*daySlots
	var cur *daySlots
	for _, s := range slots {
		start, end := s.Start, s.End
		if !bound.IsZero() && end.After(bound) {
			end = bound
		}
		if !start.Before(end) {
			continue
		}
		if cur == nil || !cur.day.Equal(s.Day) {
			cur = &daySlots{day: s.Day}
			days = append(days, cur)
		}
		cur.slots = append(cur.slots, &workSlot{start: start, end: end, day: s.Day, cursor: start})
	}
	return days
}

// usableDays counts days offering at least one slot that can hold a
// minimum-length block.
func usableDays(days []*daySlots, minBlock, gran time.Duration) int {
	n := 0
	for _, d := range days {
		for _, s := range d.slots {
			if roundDown(s.remaining(), gran) >= minBlock {
				n++
				break
			}
		}
	}
	return n
}

// fill carves up to want out of the slot, extending the slot's last
// block when possible and opening new blocks otherwise. All carved
// amounts are granularity multiples; new blocks respect the block
// bounds. It returns the amount actually carved.
func fill(s *workSlot, want, minBlock, maxBlock, gran time.Duration) time.Duration {
	var took time.Duration
	for want-took >= gran {
		left := want - took
		if n := len(s.blocks); n > 0 && s.blocks[n-1].End.Equal(s.cursor) {
			headroom := maxBlock - s.blocks[n-1].Duration()
			delta := roundDown(minDur(left, headroom, s.remaining()), gran)
			if delta >= gran {
				s.blocks[n-1].End = s.blocks[n-1].End.Add(delta)
				s.cursor = s.blocks[n-1].End
				took += delta
				continue
			}
		}
		size := roundDown(minDur(left, maxBlock, s.remaining()), gran)
		if size < minBlock {
			break
		}
		b := model.PrepBlock{Start: s.cursor, End: s.cursor.Add(size), Day: s.day}
		s.blocks = append(s.blocks, b)
		s.cursor = b.End
		took += size
	}
	return took
}

// collect flattens the carved blocks in chronological order and builds
// the result.
func collect(days []*daySlots, pol model.AllocationPolicy, strategy string) model.ScheduleResult {
	var blocks []model.PrepBlock
	var total time.Duration
	for _, d := range days {
		for _, s := range d.slots {
			blocks = append(blocks, s.blocks...)
			total += s.allocated()
		}
	}
	allocated := model.DurationToHours(total)
	deficit := pol.TargetHours - allocated
	if deficit < 0 {
		deficit = 0
	}
	res := model.ScheduleResult{
		Blocks:         blocks,
		AllocatedHours: allocated,
		DeficitHours:   deficit,
		Feasible:       deficit == 0,
		Strategy:       strategy,
	}
	res.SpreadMetric = Spread(res, pol)
	return res
}

func roundDown(d, gran time.Duration) time.Duration {
	if gran <= 0 {
		return d
	}
	return d - d%gran
}

func roundUp(d, gran time.Duration) time.Duration {
	if gran <= 0 || d%gran == 0 {
		return d
	}
	return d + gran - d%gran
}

func minDur(d time.Duration, rest ...time.Duration) time.Duration {
	for _, r := range rest {
		if r < d {
			d = r
		}
	}
	return d
}
