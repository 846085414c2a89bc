package service

import (
	"groupcal/modules/availability/entity"

	"github.com/google/uuid"
)

// memberQualifies reports whether a member's free set satisfies the
// continuity requirement. A non-positive requirement means any free
// time at all qualifies.
func memberQualifies(free []entity.Interval, minContinuousMinutes int) bool {
	if minContinuousMinutes <= 0 {
		for _, iv := range free {
			if !iv.Empty() {
				return true
			}
		}
		return false
	}

	for _, iv := range free {
		if iv.Minutes() >= minContinuousMinutes {
			return true
		}
	}
	return false
}

// CountAvailable counts the members whose free set qualifies for the
// day. The raw count is reported; deciding how many people are enough
// is the caller's business.
func CountAvailable(freeByMember map[uuid.UUID][]entity.Interval, minContinuousMinutes int) int {
	count := 0
	for _, free := range freeByMember {
		if memberQualifies(free, minContinuousMinutes) {
			count++
		}
	}
	return count
}
