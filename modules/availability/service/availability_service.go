package service

import (
	"context"
	"math"
	"time"

	"groupcal/core/config"
	"groupcal/core/constants"
	"groupcal/core/errors"
	"groupcal/core/logger"
	"groupcal/modules/availability/dto"
	"groupcal/modules/availability/entity"

	"github.com/google/uuid"
)

// EventProvider supplies member calendars to the engine. The engine
// never talks to storage directly so tests can substitute a fake.
type EventProvider interface {
	GroupExists(ctx context.Context, groupID uuid.UUID) (bool, error)
	FetchGroupEvents(ctx context.Context, groupID uuid.UUID, from, to time.Time) (map[uuid.UUID][]entity.MemberEvent, error)
}

// MembershipChecker answers whether a user belongs to a group
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (bool, error)
}

// AvailabilityService computes per-day availability counts for a group
type AvailabilityService struct {
	provider EventProvider
	members  MembershipChecker
	location *time.Location
	now      func() time.Time
}

// AvailabilityServiceInterface defines the service contract
type AvailabilityServiceInterface interface {
	ComputeAvailability(ctx context.Context, groupID uuid.UUID, requesterID uuid.UUID, req *dto.AvailabilityRequest) (dto.AvailabilityResponse, *errors.AppError)
}

// NewAvailabilityService creates a new availability service. The scan
// runs in the configured server timezone, falling back to the process
// local zone when no config is loaded.
func NewAvailabilityService(provider EventProvider, members MembershipChecker) *AvailabilityService {
	loc := time.Local
	if cfg, ok := config.GetSafe(); ok && cfg.Server.Timezone != "" {
		if parsed, err := time.LoadLocation(cfg.Server.Timezone); err == nil {
			loc = parsed
		} else {
			logger.Warn("AvailabilityService: invalid timezone, using local", "timezone", cfg.Server.Timezone)
		}
	}

	return &AvailabilityService{
		provider: provider,
		members:  members,
		location: loc,
		now:      time.Now,
	}
}

// query is a validated, engine-ready form of the request
type query struct {
	window               entity.Interval
	days                 map[time.Weekday]bool
	weeksAhead           int
	minContinuousMinutes int
}

// parseClock converts "HH:MM" to whole minutes from midnight
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// parseRequest validates the raw request. Every constraint is checked
// before any data is fetched; the first violation wins.
func parseRequest(req *dto.AvailabilityRequest) (*query, *errors.AppError) {
	startMin, ok := parseClock(req.StartTime)
	if !ok {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time must be HH:MM", nil)
	}
	endMin, ok := parseClock(req.EndTime)
	if !ok {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be HH:MM", nil)
	}
	if endMin <= startMin {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}

	if len(req.DaysOfWeek) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "days_of_week must not be empty", nil)
	}
	days := make(map[time.Weekday]bool, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "days_of_week values must be 0..6", nil)
		}
		days[time.Weekday(d)] = true
	}

	if req.WeeksAhead <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "weeks_ahead must be positive", nil)
	}

	minContinuous := 0
	if req.MinContinuousHours != nil {
		if *req.MinContinuousHours < 0 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "min_continuous_hours must not be negative", nil)
		}
		minContinuous = int(math.Round(*req.MinContinuousHours * 60))
	}

	return &query{
		window:               entity.Interval{Start: startMin, End: endMin},
		days:                 days,
		weeksAhead:           req.WeeksAhead,
		minContinuousMinutes: minContinuous,
	}, nil
}

// ComputeAvailability runs the full pipeline: validate, fetch every
// member's events for the horizon in one call, then evaluate each
// requested day independently. Nothing is cached between requests.
func (s *AvailabilityService) ComputeAvailability(ctx context.Context, groupID uuid.UUID, requesterID uuid.UUID, req *dto.AvailabilityRequest) (dto.AvailabilityResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	q, appErr := parseRequest(req)
	if appErr != nil {
		return nil, appErr
	}

	exists, err := s.provider.GroupExists(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpstreamFetch, "fetch group failed", err)
	}
	if !exists {
		return nil, errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}

	isMember, err := s.members.IsMember(ctx, groupID, requesterID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpstreamFetch, "check membership failed", err)
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
	}

	nowLocal := s.now().In(s.location)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, s.location)
	horizonDays := q.weeksAhead * 7
	from := today
	to := today.AddDate(0, 0, horizonDays)

	eventsByMember, err := s.provider.FetchGroupEvents(ctx, groupID, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpstreamFetch, "fetch group events failed", err)
	}

	result := make(dto.AvailabilityResponse)
	for day := 0; day < horizonDays; day++ {
		date := today.AddDate(0, 0, day)
		if !q.days[date.Weekday()] {
			continue
		}

		freeByMember := make(map[uuid.UUID][]entity.Interval, len(eventsByMember))
		for memberID, events := range eventsByMember {
			busy := BusyIntervals(events, date, q.window)
			freeByMember[memberID] = FreeIntervals(busy, q.window)
		}

		result[date.Format("2006-01-02")] = CountAvailable(freeByMember, q.minContinuousMinutes)
	}

	logger.Info("AvailabilityService:ComputeAvailability",
		"group_id", groupID,
		"days_evaluated", len(result),
		"members", len(eventsByMember),
	)
	return result, nil
}
