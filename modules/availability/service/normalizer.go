package service

import (
	"sort"
	"time"

	"groupcal/modules/availability/entity"
)

// BusyIntervals reduces a member's raw events for one day to a sorted,
// merged set of busy intervals clipped to the query window. Point
// events (nil End) occupy no time and are dropped, as are malformed
// events whose end precedes their start.
func BusyIntervals(events []entity.MemberEvent, dayStart time.Time, window entity.Interval) []entity.Interval {
	busy := make([]entity.Interval, 0, len(events))

	for _, ev := range events {
		if ev.End == nil {
			continue
		}
		if ev.End.Before(ev.Start) {
			continue
		}

		iv := entity.Interval{
			Start: minutesFromMidnight(ev.Start, dayStart),
			End:   minutesFromMidnight(*ev.End, dayStart),
		}

		// clip to the window
		if iv.Start < window.Start {
			iv.Start = window.Start
		}
		if iv.End > window.End {
			iv.End = window.End
		}
		if iv.Empty() {
			continue
		}

		busy = append(busy, iv)
	}

	return mergeIntervals(busy)
}

// mergeIntervals sorts intervals and coalesces overlapping and touching
// ones. Back-to-back busy blocks leave no free gap between them.
func mergeIntervals(intervals []entity.Interval) []entity.Interval {
	if len(intervals) == 0 {
		return intervals
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start != intervals[j].Start {
			return intervals[i].Start < intervals[j].Start
		}
		return intervals[i].End < intervals[j].End
	})

	merged := intervals[:1]
	for _, cur := range intervals[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}

	return merged
}

// FreeIntervals returns the complement of a merged busy set within the
// window. A member with no busy time gets the whole window back.
func FreeIntervals(busy []entity.Interval, window entity.Interval) []entity.Interval {
	free := make([]entity.Interval, 0, len(busy)+1)

	cursor := window.Start
	for _, b := range busy {
		if b.Start > cursor {
			free = append(free, entity.Interval{Start: cursor, End: b.Start})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if cursor < window.End {
		free = append(free, entity.Interval{Start: cursor, End: window.End})
	}

	return free
}

// minutesFromMidnight converts an absolute instant to whole minutes
// from the day's local midnight. Instants outside the day land outside
// 0..1440 and are handled by window clipping.
func minutesFromMidnight(t time.Time, dayStart time.Time) int {
	return int(t.In(dayStart.Location()).Sub(dayStart) / time.Minute)
}
