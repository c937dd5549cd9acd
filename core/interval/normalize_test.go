package interval

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prepsched/prepsched/core/model"
)

func ts(day, hour, min int) time.Time {
	return time.Date(2025, 1, day, hour, min, 0, 0, time.UTC)
}

func TestNormalizeMergesOverlapping(t *testing.T) {
	raw := []model.TimeInterval{
		{Start: ts(6, 9, 0), End: ts(6, 10, 0)},
		{Start: ts(6, 9, 30), End: ts(6, 11, 0)},
		{Start: ts(6, 11, 0), End: ts(6, 12, 0)}, // touching, must merge
		{Start: ts(6, 14, 0), End: ts(6, 15, 0)},
	}
	sched, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	day := ts(6, 0, 0)
	got := sched[day]
	want := []model.TimeInterval{
		{Start: ts(6, 9, 0), End: ts(6, 12, 0)},
		{Start: ts(6, 14, 0), End: ts(6, 15, 0)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged intervals mismatch: got %v want %v", got, want)
	}
}

func TestNormalizeSplitsMidnight(t *testing.T) {
	raw := []model.TimeInterval{
		{Start: ts(6, 22, 0), End: ts(7, 2, 0)},
	}
	sched, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(sched) != 2 {
		t.Fatalf("expected 2 days, got %d", len(sched))
	}
	d1 := sched[ts(6, 0, 0)]
	d2 := sched[ts(7, 0, 0)]
	if len(d1) != 1 || !d1[0].End.Equal(ts(7, 0, 0)) {
		t.Fatalf("first segment wrong: %v", d1)
	}
	if len(d2) != 1 || !d2[0].Start.Equal(ts(7, 0, 0)) || !d2[0].End.Equal(ts(7, 2, 0)) {
		t.Fatalf("second segment wrong: %v", d2)
	}
}

func TestNormalizeMultiDaySpan(t *testing.T) {
	raw := []model.TimeInterval{
		{Start: ts(6, 12, 0), End: ts(9, 6, 0)},
	}
	sched, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(sched) != 4 {
		t.Fatalf("expected 4 day segments, got %d", len(sched))
	}
}

func TestNormalizeOrderIndependent(t *testing.T) {
	a := []model.TimeInterval{
		{Start: ts(6, 9, 0), End: ts(6, 10, 0)},
		{Start: ts(6, 13, 0), End: ts(6, 14, 0)},
		{Start: ts(6, 9, 30), End: ts(6, 11, 0)},
	}
	b := []model.TimeInterval{a[2], a[0], a[1]}
	sa, err := Normalize(a)
	if err != nil {
		t.Fatalf("normalize a: %v", err)
	}
	sb, err := Normalize(b)
	if err != nil {
		t.Fatalf("normalize b: %v", err)
	}
	if !reflect.DeepEqual(sa, sb) {
		t.Fatalf("result depends on input order")
	}
}

func TestNormalizeDuplicatesCollapse(t *testing.T) {
	iv := model.TimeInterval{Start: ts(6, 9, 0), End: ts(6, 10, 0)}
	sched, err := Normalize([]model.TimeInterval{iv, iv, iv})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := sched[ts(6, 0, 0)]; len(got) != 1 {
		t.Fatalf("expected collapsed duplicate, got %v", got)
	}
}

func TestNormalizeInMixedOffsets(t *testing.T) {
	cet := time.FixedZone("CET", 2*3600)
	raw := []model.TimeInterval{
		// 11:00-13:00 +02:00 is 09:00-11:00 UTC.
		{Start: time.Date(2025, 1, 6, 11, 0, 0, 0, cet), End: time.Date(2025, 1, 6, 13, 0, 0, 0, cet)},
		{Start: ts(6, 10, 0), End: ts(6, 12, 0)},
	}
	sched, err := NormalizeIn(raw, time.UTC)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(sched) != 1 {
		t.Fatalf("offset interval landed under its own day key: %v", sched)
	}
	got := sched[ts(6, 0, 0)]
	want := []model.TimeInterval{{Start: ts(6, 9, 0), End: ts(6, 12, 0)}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("offset interval not merged: got %v want %v", got, want)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	raw := []model.TimeInterval{
		{Start: ts(6, 10, 0), End: ts(6, 10, 0)},
	}
	_, err := Normalize(raw)
	var iie model.InvalidIntervalError
	if !errors.As(err, &iie) {
		t.Fatalf("expected InvalidIntervalError, got %v", err)
	}
}
