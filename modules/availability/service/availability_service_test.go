package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"groupcal/core/errors"
	"groupcal/modules/availability/dto"
	"groupcal/modules/availability/entity"
)

type fakeProvider struct {
	exists      bool
	existsErr   error
	events      map[uuid.UUID][]entity.MemberEvent
	eventsErr   error
	fetchCalls  int
	existsCalls int
	from, to    time.Time
}

func (f *fakeProvider) GroupExists(ctx context.Context, groupID uuid.UUID) (bool, error) {
	f.existsCalls++
	return f.exists, f.existsErr
}

func (f *fakeProvider) FetchGroupEvents(ctx context.Context, groupID uuid.UUID, from, to time.Time) (map[uuid.UUID][]entity.MemberEvent, error) {
	f.fetchCalls++
	f.from, f.to = from, to
	return f.events, f.eventsErr
}

type fakeMembers struct {
	isMember bool
	err      error
}

func (f *fakeMembers) IsMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (bool, error) {
	return f.isMember, f.err
}

func newTestService(provider *fakeProvider, members *fakeMembers, now time.Time) *AvailabilityService {
	return &AvailabilityService{
		provider: provider,
		members:  members,
		location: time.UTC,
		now:      func() time.Time { return now },
	}
}

func validRequest() *dto.AvailabilityRequest {
	return &dto.AvailabilityRequest{
		StartTime:  "09:00",
		EndTime:    "17:00",
		DaysOfWeek: []int{1, 3}, // Monday and Wednesday
		WeeksAhead: 1,
	}
}

// Tuesday 2026-09-01 10:30 UTC
var testNow = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func TestComputeAvailability_InvalidRequestsNeverTouchProvider(t *testing.T) {
	hours := -1.0
	cases := []struct {
		name   string
		mutate func(*dto.AvailabilityRequest)
	}{
		{"bad start_time", func(r *dto.AvailabilityRequest) { r.StartTime = "9am" }},
		{"bad end_time", func(r *dto.AvailabilityRequest) { r.EndTime = "25:00" }},
		{"end before start", func(r *dto.AvailabilityRequest) { r.StartTime = "17:00"; r.EndTime = "09:00" }},
		{"end equals start", func(r *dto.AvailabilityRequest) { r.EndTime = "09:00" }},
		{"empty days", func(r *dto.AvailabilityRequest) { r.DaysOfWeek = nil }},
		{"day out of range", func(r *dto.AvailabilityRequest) { r.DaysOfWeek = []int{7} }},
		{"zero weeks", func(r *dto.AvailabilityRequest) { r.WeeksAhead = 0 }},
		{"negative minimum", func(r *dto.AvailabilityRequest) { r.MinContinuousHours = &hours }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &fakeProvider{exists: true}
			svc := newTestService(provider, &fakeMembers{isMember: true}, testNow)

			req := validRequest()
			tc.mutate(req)

			_, appErr := svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), req)
			if appErr == nil {
				t.Fatalf("expected validation error")
			}
			if appErr.Code != errors.ErrInvalidInput {
				t.Fatalf("code = %s, want %s", appErr.Code, errors.ErrInvalidInput)
			}
			if provider.existsCalls != 0 || provider.fetchCalls != 0 {
				t.Fatalf("provider touched for invalid request: exists=%d fetch=%d", provider.existsCalls, provider.fetchCalls)
			}
		})
	}
}

func TestComputeAvailability_UnknownGroup(t *testing.T) {
	svc := newTestService(&fakeProvider{exists: false}, &fakeMembers{isMember: true}, testNow)

	_, appErr := svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), validRequest())
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("appErr = %v, want %s", appErr, errors.ErrNotFound)
	}
}

func TestComputeAvailability_NonMember(t *testing.T) {
	svc := newTestService(&fakeProvider{exists: true}, &fakeMembers{isMember: false}, testNow)

	_, appErr := svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), validRequest())
	if appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("appErr = %v, want %s", appErr, errors.ErrForbidden)
	}
}

func TestComputeAvailability_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{exists: true, eventsErr: fmt.Errorf("connection refused")}
	svc := newTestService(provider, &fakeMembers{isMember: true}, testNow)

	_, appErr := svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), validRequest())
	if appErr == nil || appErr.Code != errors.ErrUpstreamFetch {
		t.Fatalf("appErr = %v, want %s", appErr, errors.ErrUpstreamFetch)
	}
}

func TestComputeAvailability_OnlyRequestedWeekdays(t *testing.T) {
	memberA := uuid.New()
	provider := &fakeProvider{
		exists: true,
		events: map[uuid.UUID][]entity.MemberEvent{memberA: nil},
	}
	svc := newTestService(provider, &fakeMembers{isMember: true}, testNow)

	result, appErr := svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), validRequest())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	// One week starting Tuesday 2026-09-01 contains one Wednesday and
	// one Monday.
	want := map[string]int{
		"2026-09-02": 1,
		"2026-09-07": 1,
	}
	if len(result) != len(want) {
		t.Fatalf("result = %v, want keys %v", result, want)
	}
	for date, count := range want {
		if result[date] != count {
			t.Fatalf("result[%s] = %d, want %d", date, result[date], count)
		}
	}
	if provider.fetchCalls != 1 {
		t.Fatalf("fetchCalls = %d, want a single horizon fetch", provider.fetchCalls)
	}
}

func TestComputeAvailability_CountsPerDay(t *testing.T) {
	busy := uuid.New()
	free := uuid.New()
	wednesday := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	end := wednesday.Add(18 * time.Hour)
	provider := &fakeProvider{
		exists: true,
		events: map[uuid.UUID][]entity.MemberEvent{
			// busy all of Wednesday's window
			busy: {{OwnerID: busy, Start: wednesday.Add(8 * time.Hour), End: &end}},
			free: nil,
		},
	}
	svc := newTestService(provider, &fakeMembers{isMember: true}, testNow)

	result, appErr := svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), validRequest())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if result["2026-09-02"] != 1 {
		t.Fatalf("Wednesday count = %d, want 1", result["2026-09-02"])
	}
	if result["2026-09-07"] != 2 {
		t.Fatalf("Monday count = %d, want 2", result["2026-09-07"])
	}
}

func TestComputeAvailability_MalformedEventIsIgnored(t *testing.T) {
	member := uuid.New()
	wednesday := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	badEnd := wednesday.Add(9 * time.Hour) // ends before it starts
	provider := &fakeProvider{
		exists: true,
		events: map[uuid.UUID][]entity.MemberEvent{
			member: {{OwnerID: member, Start: wednesday.Add(12 * time.Hour), End: &badEnd}},
		},
	}
	svc := newTestService(provider, &fakeMembers{isMember: true}, testNow)

	result, appErr := svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), validRequest())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if result["2026-09-02"] != 1 {
		t.Fatalf("Wednesday count = %d, want 1 with the malformed event ignored", result["2026-09-02"])
	}
}

func TestComputeAvailability_HorizonBounds(t *testing.T) {
	provider := &fakeProvider{exists: true}
	svc := newTestService(provider, &fakeMembers{isMember: true}, testNow)

	req := validRequest()
	req.WeeksAhead = 2
	if _, appErr := svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), req); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	wantFrom := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !provider.from.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", provider.from, wantFrom)
	}
	if !provider.to.Equal(wantFrom.AddDate(0, 0, 14)) {
		t.Fatalf("to = %v, want %v", provider.to, wantFrom.AddDate(0, 0, 14))
	}
}
