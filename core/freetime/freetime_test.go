package freetime

import (
	"testing"
	"time"

	"github.com/prepsched/prepsched/core/interval"
	"github.com/prepsched/prepsched/core/model"
)

func ts(day, hour, min int) time.Time {
	return time.Date(2025, 1, day, hour, min, 0, 0, time.UTC)
}

func window() model.WorkingWindow {
	return model.WorkingWindow{
		Weekday: model.ClockRange{Start: 9 * time.Hour, End: 17 * time.Hour},
	}
}

func policy() model.AllocationPolicy {
	return model.AllocationPolicy{
		TargetHours:   8,
		MinBlockHours: 1,
		MaxBlockHours: 3,
		DailyCapHours: 6,
		Granularity:   30 * time.Minute,
		WorkingWindow: window(),
		HorizonStart:  ts(6, 0, 0), // Monday
		HorizonEnd:    ts(8, 0, 0),
	}
}

func TestComputeEmptySchedule(t *testing.T) {
	slots := Compute(model.DaySchedule{}, policy())
	if len(slots) != 2 {
		t.Fatalf("expected one slot per weekday, got %d", len(slots))
	}
	if !slots[0].Start.Equal(ts(6, 9, 0)) || !slots[0].End.Equal(ts(6, 17, 0)) {
		t.Fatalf("first slot wrong: %+v", slots[0])
	}
}

func TestComputeSubtractsBusy(t *testing.T) {
	sched, err := interval.Normalize([]model.TimeInterval{
		{Start: ts(6, 10, 0), End: ts(6, 12, 0)},
		{Start: ts(6, 8, 0), End: ts(6, 9, 30)}, // spills before the window
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	slots := Compute(sched, policy())
	var day6 []model.FreeSlot
	for _, s := range slots {
		if s.Day.Equal(ts(6, 0, 0)) {
			day6 = append(day6, s)
		}
	}
	if len(day6) != 2 {
		t.Fatalf("expected 2 slots on day 6, got %v", day6)
	}
	if !day6[0].Start.Equal(ts(6, 9, 30)) || !day6[0].End.Equal(ts(6, 10, 0)) {
		t.Fatalf("first slot wrong: %+v", day6[0])
	}
	if !day6[1].Start.Equal(ts(6, 12, 0)) || !day6[1].End.Equal(ts(6, 17, 0)) {
		t.Fatalf("second slot wrong: %+v", day6[1])
	}
}

func TestComputeSubtractsOffsetBusy(t *testing.T) {
	cet := time.FixedZone("CET", 2*3600)
	// 11:00-23:00 +02:00 is 09:00-21:00 UTC, covering the whole window.
	sched, err := interval.NormalizeIn([]model.TimeInterval{
		{
			Start: time.Date(2025, 1, 6, 11, 0, 0, 0, cet),
			End:   time.Date(2025, 1, 6, 23, 0, 0, 0, cet),
		},
	}, time.UTC)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	slots := Compute(sched, policy())
	for _, s := range slots {
		if s.Day.Equal(ts(6, 0, 0)) {
			t.Fatalf("offset busy interval not subtracted: %+v", s)
		}
	}
}

func TestComputeFullyBusyDay(t *testing.T) {
	sched, err := interval.Normalize([]model.TimeInterval{
		{Start: ts(6, 8, 0), End: ts(6, 18, 0)},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	slots := Compute(sched, policy())
	for _, s := range slots {
		if s.Day.Equal(ts(6, 0, 0)) {
			t.Fatalf("fully busy day produced slot %+v", s)
		}
	}
}

func TestComputeExcludedDayYieldsNoSlots(t *testing.T) {
	pol := policy()
	pol.WorkingWindow.Excluded = map[time.Weekday]bool{time.Monday: true}
	slots := Compute(model.DaySchedule{}, pol)
	for _, s := range slots {
		if s.Day.Weekday() == time.Monday {
			t.Fatalf("excluded day produced slot %+v", s)
		}
	}
}

func TestComputeWeekendWindow(t *testing.T) {
	pol := policy()
	pol.HorizonStart = ts(4, 0, 0) // Saturday
	pol.HorizonEnd = ts(6, 0, 0)
	pol.WorkingWindow.Weekend = model.ClockRange{Start: 10 * time.Hour, End: 14 * time.Hour}
	slots := Compute(model.DaySchedule{}, pol)
	if len(slots) != 2 {
		t.Fatalf("expected weekend slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(ts(4, 10, 0)) || !slots[0].End.Equal(ts(4, 14, 0)) {
		t.Fatalf("weekend slot wrong: %+v", slots[0])
	}
}

func TestComputeNoWeekendWindowExcludesWeekend(t *testing.T) {
	pol := policy()
	pol.HorizonStart = ts(4, 0, 0) // Saturday through Sunday
	pol.HorizonEnd = ts(6, 0, 0)
	if slots := Compute(model.DaySchedule{}, pol); len(slots) != 0 {
		t.Fatalf("expected no weekend slots, got %v", slots)
	}
}

func TestComputeShortSlotRetained(t *testing.T) {
	// Busy everywhere except a 30 minute gap shorter than MinBlockHours.
	sched, err := interval.Normalize([]model.TimeInterval{
		{Start: ts(6, 9, 0), End: ts(6, 12, 0)},
		{Start: ts(6, 12, 30), End: ts(6, 17, 0)},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	pol := policy()
	pol.HorizonEnd = ts(7, 0, 0)
	slots := Compute(sched, pol)
	if len(slots) != 1 || slots[0].Duration() != 30*time.Minute {
		t.Fatalf("short slot not retained: %v", slots)
	}
}

func TestComputeHorizonClipping(t *testing.T) {
	pol := policy()
	pol.HorizonStart = ts(6, 10, 0)
	pol.HorizonEnd = ts(6, 15, 0)
	slots := Compute(model.DaySchedule{}, pol)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Start.Equal(ts(6, 10, 0)) || !slots[0].End.Equal(ts(6, 15, 0)) {
		t.Fatalf("slot not clipped to horizon: %+v", slots[0])
	}
}
