package service

import (
	"reflect"
	"testing"
	"time"

	"groupcal/modules/availability/entity"
)

var testDay = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func ptr(t time.Time) *time.Time { return &t }

func event(start, end time.Time) entity.MemberEvent {
	return entity.MemberEvent{Start: start, End: ptr(end)}
}

func TestBusyIntervals_MergesOverlapping(t *testing.T) {
	window := entity.Interval{Start: 9 * 60, End: 17 * 60}
	events := []entity.MemberEvent{
		event(at(10, 0), at(11, 30)),
		event(at(11, 0), at(12, 0)),
		event(at(14, 0), at(15, 0)),
	}

	busy := BusyIntervals(events, testDay, window)
	want := []entity.Interval{
		{Start: 10 * 60, End: 12 * 60},
		{Start: 14 * 60, End: 15 * 60},
	}
	if !reflect.DeepEqual(busy, want) {
		t.Fatalf("busy = %v, want %v", busy, want)
	}
}

func TestBusyIntervals_TouchingIntervalsMerge(t *testing.T) {
	// Back-to-back meetings leave no free gap between them.
	window := entity.Interval{Start: 9 * 60, End: 17 * 60}
	events := []entity.MemberEvent{
		event(at(10, 0), at(11, 0)),
		event(at(11, 0), at(12, 0)),
	}

	busy := BusyIntervals(events, testDay, window)
	want := []entity.Interval{{Start: 10 * 60, End: 12 * 60}}
	if !reflect.DeepEqual(busy, want) {
		t.Fatalf("busy = %v, want %v", busy, want)
	}

	free := FreeIntervals(busy, window)
	wantFree := []entity.Interval{
		{Start: 9 * 60, End: 10 * 60},
		{Start: 12 * 60, End: 17 * 60},
	}
	if !reflect.DeepEqual(free, wantFree) {
		t.Fatalf("free = %v, want %v", free, wantFree)
	}
}

func TestBusyIntervals_ClipsToWindow(t *testing.T) {
	window := entity.Interval{Start: 9 * 60, End: 17 * 60}
	events := []entity.MemberEvent{
		event(at(7, 0), at(10, 0)),  // starts before the window
		event(at(16, 30), at(19, 0)), // ends after the window
		event(at(20, 0), at(21, 0)),  // entirely outside
	}

	busy := BusyIntervals(events, testDay, window)
	want := []entity.Interval{
		{Start: 9 * 60, End: 10 * 60},
		{Start: 16*60 + 30, End: 17 * 60},
	}
	if !reflect.DeepEqual(busy, want) {
		t.Fatalf("busy = %v, want %v", busy, want)
	}
}

func TestBusyIntervals_SkipsPointAndMalformedEvents(t *testing.T) {
	window := entity.Interval{Start: 9 * 60, End: 17 * 60}
	events := []entity.MemberEvent{
		{Start: at(10, 0), End: nil},      // point event occupies no time
		event(at(14, 0), at(13, 0)),       // end before start, malformed
	}

	busy := BusyIntervals(events, testDay, window)
	if len(busy) != 0 {
		t.Fatalf("busy = %v, want empty", busy)
	}
}

func TestFreeIntervals_ComplementIsExact(t *testing.T) {
	// Free and busy must partition the window with nothing lost.
	window := entity.Interval{Start: 9 * 60, End: 17 * 60}
	events := []entity.MemberEvent{
		event(at(9, 30), at(10, 15)),
		event(at(12, 0), at(13, 0)),
		event(at(16, 0), at(16, 45)),
	}

	busy := BusyIntervals(events, testDay, window)
	free := FreeIntervals(busy, window)

	total := 0
	for _, iv := range busy {
		total += iv.Minutes()
	}
	for _, iv := range free {
		total += iv.Minutes()
	}
	if total != window.Minutes() {
		t.Fatalf("busy+free = %d minutes, want %d", total, window.Minutes())
	}

	// No free interval may intersect a busy one.
	for _, f := range free {
		for _, b := range busy {
			if f.Start < b.End && b.Start < f.End {
				t.Fatalf("free %v overlaps busy %v", f, b)
			}
		}
	}
}

func TestFreeIntervals_NoEventsMeansWholeWindow(t *testing.T) {
	window := entity.Interval{Start: 9 * 60, End: 17 * 60}

	free := FreeIntervals(BusyIntervals(nil, testDay, window), window)
	want := []entity.Interval{window}
	if !reflect.DeepEqual(free, want) {
		t.Fatalf("free = %v, want %v", free, want)
	}
}

func TestFreeIntervals_FullyBookedWindow(t *testing.T) {
	window := entity.Interval{Start: 9 * 60, End: 17 * 60}
	events := []entity.MemberEvent{event(at(8, 0), at(18, 0))}

	free := FreeIntervals(BusyIntervals(events, testDay, window), window)
	if len(free) != 0 {
		t.Fatalf("free = %v, want empty", free)
	}
}

func TestMergeIntervals_Idempotent(t *testing.T) {
	intervals := []entity.Interval{
		{Start: 60, End: 120},
		{Start: 90, End: 180},
		{Start: 300, End: 360},
	}

	once := mergeIntervals(intervals)
	twice := mergeIntervals(append([]entity.Interval(nil), once...))
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent: %v then %v", once, twice)
	}
}
