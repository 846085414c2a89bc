package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"groupcal/modules/calendarsync/entity"
)

const testFeedPayload = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:single-1
SUMMARY:Dentist
DTSTART:20260907T090000Z
DTEND:20260907T100000Z
END:VEVENT
BEGIN:VEVENT
UID:weekly-1
SUMMARY:Standup
DTSTART:20260907T140000Z
DTEND:20260907T141500Z
RRULE:FREQ=WEEKLY;COUNT=10
EXDATE:20260914T140000Z
END:VEVENT
BEGIN:VEVENT
SUMMARY:No identifier
DTSTART:20260907T160000Z
END:VEVENT
BEGIN:VEVENT
UID:outside-1
SUMMARY:Past event
DTSTART:20260101T090000Z
DTEND:20260101T100000Z
END:VEVENT
END:VCALENDAR
`

func testFeed() *entity.CalendarFeed {
	feed := &entity.CalendarFeed{
		UserID: uuid.New(),
		Name:   "team calendar",
		URL:    "https://example.com/team.ics",
	}
	feed.ID = uuid.MustParse("4dbd45a4-1b9e-4f3e-9d57-2a4c8bd2a111")
	return feed
}

func TestParseFeedEvents_ExpandsWindow(t *testing.T) {
	feed := testFeed()
	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 21)

	events, err := parseFeedEvents(feed, []byte(strings.ReplaceAll(testFeedPayload, "\n", "\r\n")), from, to)
	if err != nil {
		t.Fatalf("parseFeedEvents: %v", err)
	}

	byUID := make(map[string]entity.ExternalEvent, len(events))
	for _, ev := range events {
		byUID[ev.UID] = ev
	}

	// The single event keeps the feed-scoped UID with no occurrence suffix.
	singleUID := fmt.Sprintf("ics:%s:single-1", feed.ID)
	single, ok := byUID[singleUID]
	if !ok {
		t.Fatalf("missing single event, got %d events", len(events))
	}
	if single.Title != "Dentist" {
		t.Fatalf("title = %q, want Dentist", single.Title)
	}
	if single.End == nil || single.End.Sub(single.Start) != time.Hour {
		t.Fatalf("single event duration wrong: start=%v end=%v", single.Start, single.End)
	}

	// Weekly event: three Mondays fall in the window and one is excluded.
	var weekly []entity.ExternalEvent
	weeklyPrefix := fmt.Sprintf("ics:%s:weekly-1:", feed.ID)
	for uid, ev := range byUID {
		if strings.HasPrefix(uid, weeklyPrefix) {
			weekly = append(weekly, ev)
		}
	}
	if len(weekly) != 2 {
		t.Fatalf("weekly occurrences = %d, want 2 (one EXDATE dropped)", len(weekly))
	}
	for _, ev := range weekly {
		if ev.Start.Equal(time.Date(2026, 9, 14, 14, 0, 0, 0, time.UTC)) {
			t.Fatalf("excluded occurrence was expanded: %v", ev.Start)
		}
		if ev.End == nil || ev.End.Sub(ev.Start) != 15*time.Minute {
			t.Fatalf("occurrence duration wrong: start=%v end=%v", ev.Start, ev.End)
		}
	}

	// The UID-less VEVENT is skipped and the past event filtered out.
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3 (single + two weekly)", len(events))
	}
}

func TestParseFeedEvents_RejectsGarbage(t *testing.T) {
	feed := testFeed()
	from := time.Now()

	if _, err := parseFeedEvents(feed, []byte("not a calendar"), from, from.AddDate(0, 0, 7)); err == nil {
		t.Fatalf("expected parse error for non-ICS payload")
	}
}

func TestParseICSTime_Forms(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	utc, err := parseICSTime("20260907T140000Z", loc)
	if err != nil || !utc.Equal(time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("utc form: %v %v", utc, err)
	}

	floating, err := parseICSTime("20260907T140000", loc)
	if err != nil || floating.Location() != loc {
		t.Fatalf("floating form: %v %v", floating, err)
	}

	dateOnly, err := parseICSTime("20260907", loc)
	if err != nil || dateOnly.Hour() != 0 || dateOnly.Location() != loc {
		t.Fatalf("date-only form: %v %v", dateOnly, err)
	}

	if _, err := parseICSTime("", loc); err == nil {
		t.Fatalf("empty value must fail")
	}
}
