package entity

import (
	"time"

	"github.com/google/uuid"
)

// MemberEvent is a member's calendar entry as seen by the availability
// engine, regardless of which source it came from. A nil End marks a
// point event (a reminder), which occupies no time on the calendar.
type MemberEvent struct {
	OwnerID uuid.UUID  `db:"owner_id"`
	Start   time.Time  `db:"start_at"`
	End     *time.Time `db:"end_at"`
	Source  string     `db:"source"`
}

// Interval is a half-open span [Start, End) in whole minutes from local
// midnight. All interval arithmetic in the engine is integral.
type Interval struct {
	Start int
	End   int
}

// Minutes returns the interval length.
func (i Interval) Minutes() int {
	return i.End - i.Start
}

// Empty reports whether the interval covers no time.
func (i Interval) Empty() bool {
	return i.End <= i.Start
}
