package plan

import (
	"reflect"
	"testing"
	"time"

	"github.com/prepsched/prepsched/core/freetime"
	"github.com/prepsched/prepsched/core/interval"
	"github.com/prepsched/prepsched/core/model"
)

func ts(day, hour, min int) time.Time {
	return time.Date(2025, 1, day, hour, min, 0, 0, time.UTC)
}

// weekdayPolicy covers the ten weekdays Jan 6-17 2025 with an 8h working
// window and an event on the evening of the last day.
func weekdayPolicy() model.AllocationPolicy {
	return model.AllocationPolicy{
		TargetHours:   40,
		MinBlockHours: 1,
		MaxBlockHours: 3,
		DailyCapHours: 6,
		BufferBefore:  time.Hour,
		Granularity:   30 * time.Minute,
		WorkingWindow: model.WorkingWindow{
			Weekday: model.ClockRange{Start: 9 * time.Hour, End: 17 * time.Hour},
		},
		HorizonStart: ts(6, 0, 0),
		HorizonEnd:   ts(17, 18, 0),
		EventStart:   ts(17, 18, 0),
	}
}

func freeSlots(t *testing.T, busy []model.TimeInterval, pol model.AllocationPolicy) []model.FreeSlot {
	t.Helper()
	sched, err := interval.Normalize(busy)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return freetime.Compute(sched, pol)
}

func TestAllocateSpreadsTargetAcrossDays(t *testing.T) {
	pol := weekdayPolicy()
	slots := freeSlots(t, nil, pol)
	res := NewGreedyAllocator().Allocate(slots, pol)

	if !res.Feasible {
		t.Fatalf("expected feasible result: %+v", res)
	}
	if res.AllocatedHours != 40 || res.DeficitHours != 0 {
		t.Fatalf("allocated %.1f deficit %.1f", res.AllocatedHours, res.DeficitHours)
	}
	if res.DaysUsed() < 7 {
		t.Fatalf("hours crammed into %d days", res.DaysUsed())
	}
	bound := pol.EventStart.Add(-pol.BufferBefore)
	for _, b := range res.Blocks {
		if b.End.After(bound) {
			t.Fatalf("block %v breaches the buffer", b)
		}
		if day := res.HoursOnDay(b.Day); day > pol.DailyCapHours {
			t.Fatalf("day %s exceeds cap: %.1fh", b.Day.Format("2006-01-02"), day)
		}
	}
}

func TestAllocateReportsDeficit(t *testing.T) {
	pol := weekdayPolicy()
	// Only three days with 4 free hours each.
	pol.HorizonStart = ts(6, 0, 0)
	pol.HorizonEnd = ts(9, 0, 0)
	pol.EventStart = time.Time{}
	pol.WorkingWindow.Weekday = model.ClockRange{Start: 9 * time.Hour, End: 13 * time.Hour}

	slots := freeSlots(t, nil, pol)
	res := NewGreedyAllocator().Allocate(slots, pol)

	if res.Feasible {
		t.Fatalf("expected infeasible result")
	}
	if res.AllocatedHours != 12 || res.DeficitHours != 28 {
		t.Fatalf("allocated %.1f deficit %.1f", res.AllocatedHours, res.DeficitHours)
	}
}

func TestAllocateNoUsableDays(t *testing.T) {
	pol := weekdayPolicy()
	res := NewGreedyAllocator().Allocate(nil, pol)
	if res.Feasible || res.AllocatedHours != 0 || res.DeficitHours != pol.TargetHours {
		t.Fatalf("unexpected result for empty slots: %+v", res)
	}
}

func TestAllocateSkipsCoveredSlot(t *testing.T) {
	pol := weekdayPolicy()
	pol.HorizonEnd = ts(8, 0, 0)
	pol.EventStart = time.Time{}
	pol.TargetHours = 6
	// Day 6 is fully busy during the window; day 7 is free.
	busy := []model.TimeInterval{{Start: ts(6, 9, 0), End: ts(6, 17, 0)}}
	slots := freeSlots(t, busy, pol)
	res := NewGreedyAllocator().Allocate(slots, pol)
	for _, b := range res.Blocks {
		if b.Day.Equal(ts(6, 0, 0)) {
			t.Fatalf("block placed on fully busy day: %+v", b)
		}
	}
	if !res.Feasible {
		t.Fatalf("expected feasible result on the free day")
	}
}

func TestAllocateSkipsShortSlots(t *testing.T) {
	pol := weekdayPolicy()
	pol.TargetHours = 2
	pol.EventStart = time.Time{}
	slots := []model.FreeSlot{
		{Start: ts(6, 9, 0), End: ts(6, 9, 30), Day: ts(6, 0, 0)},  // below MinBlockHours
		{Start: ts(6, 10, 0), End: ts(6, 12, 0), Day: ts(6, 0, 0)},
	}
	res := NewGreedyAllocator().Allocate(slots, pol)
	if !res.Feasible {
		t.Fatalf("expected feasible: %+v", res)
	}
	for _, b := range res.Blocks {
		if b.Start.Before(ts(6, 10, 0)) {
			t.Fatalf("block assigned to sub-minimum slot: %+v", b)
		}
	}
}

func TestAllocateBufferTruncatesLastDay(t *testing.T) {
	pol := weekdayPolicy()
	pol.TargetHours = 6
	pol.HorizonEnd = ts(7, 0, 0)
	pol.EventStart = ts(6, 15, 0) // same-day event at 15:00, buffer 1h
	slots := freeSlots(t, nil, pol)
	res := NewGreedyAllocator().Allocate(slots, pol)

	if res.AllocatedHours != 5 {
		t.Fatalf("expected 5h before the buffer, got %.1f", res.AllocatedHours)
	}
	for _, b := range res.Blocks {
		if b.End.After(ts(6, 14, 0)) {
			t.Fatalf("block %v breaches the buffer bound", b)
		}
	}
	if res.Feasible {
		t.Fatalf("expected deficit after buffer truncation")
	}
}

func TestAllocateDeterministic(t *testing.T) {
	pol := weekdayPolicy()
	busy := []model.TimeInterval{
		{Start: ts(6, 10, 0), End: ts(6, 12, 0)},
		{Start: ts(8, 9, 0), End: ts(8, 15, 0)},
		{Start: ts(13, 13, 0), End: ts(13, 14, 30)},
	}
	slots := freeSlots(t, busy, pol)
	a := NewGreedyAllocator().Allocate(slots, pol)
	b := NewGreedyAllocator().Allocate(slots, pol)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("allocator is not deterministic")
	}
}

func TestAllocateMonotonicFeasibility(t *testing.T) {
	pol := weekdayPolicy()
	pol.HorizonEnd = ts(9, 0, 0)
	pol.EventStart = time.Time{}
	pol.WorkingWindow.Weekday = model.ClockRange{Start: 9 * time.Hour, End: 13 * time.Hour}
	base := NewGreedyAllocator().Allocate(freeSlots(t, nil, pol), pol)

	// Grow one day's capacity; allocated hours must not decrease.
	pol.WorkingWindow.Weekday = model.ClockRange{Start: 9 * time.Hour, End: 14 * time.Hour}
	grown := NewGreedyAllocator().Allocate(freeSlots(t, nil, pol), pol)
	if grown.AllocatedHours < base.AllocatedHours {
		t.Fatalf("capacity growth decreased allocation: %.1f -> %.1f",
			base.AllocatedHours, grown.AllocatedHours)
	}
}

func TestAllocateFrontLoadsTopUp(t *testing.T) {
	pol := weekdayPolicy()
	pol.HorizonEnd = ts(9, 0, 0)
	pol.EventStart = time.Time{}
	pol.TargetHours = 12
	// Day 6 only has 2h free; the shortfall of its equal share must be
	// made up on the earliest later day with headroom, not the last.
	busy := []model.TimeInterval{{Start: ts(6, 11, 0), End: ts(6, 17, 0)}}
	res := NewGreedyAllocator().Allocate(freeSlots(t, busy, pol), pol)
	if !res.Feasible {
		t.Fatalf("expected feasible: %+v", res)
	}
	if got := res.HoursOnDay(ts(6, 0, 0)); got != 2 {
		t.Fatalf("day 6 should carry its full capacity: %.1fh", got)
	}
	if got := res.HoursOnDay(ts(7, 0, 0)); got != 6 {
		t.Fatalf("earliest day with headroom not topped up first: %.1fh", got)
	}
	if got := res.HoursOnDay(ts(8, 0, 0)); got != 4 {
		t.Fatalf("latest day should keep the smallest share: %.1fh", got)
	}
}

func TestAllocateRespectsMaxBlock(t *testing.T) {
	pol := weekdayPolicy()
	pol.TargetHours = 6
	pol.EventStart = time.Time{}
	pol.HorizonEnd = ts(7, 0, 0)
	res := NewGreedyAllocator().Allocate(freeSlots(t, nil, pol), pol)
	for _, b := range res.Blocks {
		if d := b.Duration(); d > model.HoursToDuration(pol.MaxBlockHours) || d < model.HoursToDuration(pol.MinBlockHours) {
			t.Fatalf("block length %s outside bounds", d)
		}
		if d := b.Duration(); d%pol.Granularity != 0 {
			t.Fatalf("block length %s not a granularity multiple", d)
		}
	}
}
