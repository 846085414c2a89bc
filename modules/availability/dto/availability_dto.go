package dto

// AvailabilityRequest describes the free-time query. Times are local
// wall-clock "HH:MM"; days_of_week uses 0=Sunday .. 6=Saturday.
// MinContinuousHours is optional; nil means any free time counts.
type AvailabilityRequest struct {
	StartTime          string   `json:"start_time"`
	EndTime            string   `json:"end_time"`
	DaysOfWeek         []int    `json:"days_of_week"`
	WeeksAhead         int      `json:"weeks_ahead"`
	MinContinuousHours *float64 `json:"min_continuous_hours"`
}

// AvailabilityResponse maps each evaluated ISO date (YYYY-MM-DD) to the
// number of members available on that day.
type AvailabilityResponse map[string]int
