package service

import (
	"testing"

	"github.com/google/uuid"

	"groupcal/modules/availability/entity"
)

func TestMemberQualifies_AnyFreeTimeWhenNoMinimum(t *testing.T) {
	free := []entity.Interval{{Start: 600, End: 601}}
	if !memberQualifies(free, 0) {
		t.Fatalf("one free minute should qualify when no minimum is set")
	}
	if memberQualifies(nil, 0) {
		t.Fatalf("empty free set must never qualify")
	}
}

func TestMemberQualifies_ContinuityBoundary(t *testing.T) {
	// Two 45-minute gaps do not add up to one 60-minute block.
	free := []entity.Interval{
		{Start: 540, End: 585},
		{Start: 720, End: 765},
	}
	if memberQualifies(free, 60) {
		t.Fatalf("fragmented free time must not satisfy a 60-minute requirement")
	}

	free = append(free, entity.Interval{Start: 900, End: 960})
	if !memberQualifies(free, 60) {
		t.Fatalf("an exactly 60-minute block must satisfy a 60-minute requirement")
	}
}

func TestCountAvailable_RaisingMinimumNeverIncreasesCount(t *testing.T) {
	freeByMember := map[uuid.UUID][]entity.Interval{
		uuid.New(): {{Start: 540, End: 600}},                       // one hour
		uuid.New(): {{Start: 540, End: 570}, {Start: 700, End: 730}}, // two half hours
		uuid.New(): {{Start: 540, End: 1020}},                      // whole window
		uuid.New(): nil,                                            // fully booked
	}

	prev := len(freeByMember) + 1
	for _, min := range []int{0, 15, 30, 60, 120, 480, 600} {
		count := CountAvailable(freeByMember, min)
		if count > prev {
			t.Fatalf("count rose from %d to %d when minimum increased to %d", prev, count, min)
		}
		prev = count
	}
}

func TestCountAvailable_MinimumLongerThanWindow(t *testing.T) {
	window := entity.Interval{Start: 9 * 60, End: 17 * 60}
	freeByMember := map[uuid.UUID][]entity.Interval{
		uuid.New(): {window},
		uuid.New(): {window},
	}

	if got := CountAvailable(freeByMember, window.Minutes()+1); got != 0 {
		t.Fatalf("count = %d, want 0 when the requirement exceeds the window", got)
	}
}

func TestCountAvailable_CountsQualifyingMembersOnly(t *testing.T) {
	freeByMember := map[uuid.UUID][]entity.Interval{
		uuid.New(): {{Start: 540, End: 720}}, // three hours
		uuid.New(): {{Start: 540, End: 570}}, // half an hour
		uuid.New(): nil,
	}

	if got := CountAvailable(freeByMember, 60); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if got := CountAvailable(freeByMember, 0); got != 2 {
		t.Fatalf("count = %d, want 2 with no minimum", got)
	}
}
