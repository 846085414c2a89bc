package service

import (
	"testing"
	"time"

	"groupcal/modules/event/dto"
)

func TestValidateEventTimes(t *testing.T) {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	badEnd := start.Add(-time.Hour)

	cases := []struct {
		name    string
		req     dto.CreateEventRequest
		wantErr bool
	}{
		{"timed event", dto.CreateEventRequest{Title: "Standup", StartAt: start, EndAt: &end}, false},
		{"point event", dto.CreateEventRequest{Title: "Pay rent", StartAt: start}, false},
		{"zero duration", dto.CreateEventRequest{Title: "Checkpoint", StartAt: start, EndAt: &start}, false},
		{"missing title", dto.CreateEventRequest{StartAt: start, EndAt: &end}, true},
		{"missing start", dto.CreateEventRequest{Title: "Standup", EndAt: &end}, true},
		{"end before start", dto.CreateEventRequest{Title: "Standup", StartAt: start, EndAt: &badEnd}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := validateEventTimes(&tc.req)
			if tc.wantErr && appErr == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && appErr != nil {
				t.Fatalf("unexpected error: %v", appErr)
			}
		})
	}
}
