package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"groupcal/core/logger"
	"groupcal/modules/calendarsync/entity"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

// maxOccurrencesPerEvent caps RRULE expansion so a pathological feed
// cannot flood the events table.
const maxOccurrencesPerEvent = 1000

// fetchFeed downloads an ICS feed. When the server honors the stored
// etag with a 304 the body is nil and notModified is true.
func fetchFeed(ctx context.Context, feed *entity.CalendarFeed) (body []byte, etag *string, notModified bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, nil, false, err
	}
	if feed.LastEtag != nil {
		req.Header.Set("If-None-Match", *feed.LastEtag)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, feed.LastEtag, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, false, fmt.Errorf("feed %s returned %d", feed.Name, resp.StatusCode)
	}

	if v := resp.Header.Get("ETag"); v != "" {
		etag = &v
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, false, err
	}

	return body, etag, false, nil
}

// parseFeedEvents parses an ICS payload and expands recurring events
// into concrete instances within [from, to). Each instance gets its own
// UID so the upsert treats every occurrence as a separate calendar row.
func parseFeedEvents(feed *entity.CalendarFeed, body []byte, from, to time.Time) ([]entity.ExternalEvent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]entity.ExternalEvent, 0)
	for _, ve := range cal.Events() {
		parsed, err := expandVEvent(feed, ve, from, to)
		if err != nil {
			logger.Warn("CalendarSyncService: skipping unparseable VEVENT", "feed", feed.Name, "error", err)
			continue
		}
		events = append(events, parsed...)
	}

	return events, nil
}

func expandVEvent(feed *entity.CalendarFeed, ve *ical.VEvent, from, to time.Time) ([]entity.ExternalEvent, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil, fmt.Errorf("missing UID")
	}
	uid := uidProp.Value

	title := ""
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		title = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("missing DTSTART: %w", err)
	}

	var end *time.Time
	if e, err := ve.GetEndAt(); err == nil && !e.IsZero() {
		end = &e
	}

	keyPrefix := fmt.Sprintf("ics:%s:%s", feed.ID, uid)

	// Non-recurring: one instance, window filtering happens in SQL anyway
	// but skipping early keeps the upsert small.
	rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		effectiveEnd := start
		if end != nil {
			effectiveEnd = *end
		}
		if effectiveEnd.Before(from) || !start.Before(to) {
			return nil, nil
		}
		return []entity.ExternalEvent{{
			UID:   keyPrefix,
			Title: title,
			Start: start,
			End:   end,
		}}, nil
	}

	rule, err := rrule.StrToRRule(rruleProp.Value)
	if err != nil {
		return nil, fmt.Errorf("bad RRULE %q: %w", rruleProp.Value, err)
	}
	rule.DTStart(start)

	var set rrule.Set
	set.RRule(rule)
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		if t, err := parseICSTime(p.Value, start.Location()); err == nil {
			set.ExDate(t)
		}
	}

	occurrences := set.Between(from.In(start.Location()), to.In(start.Location()), true)
	if len(occurrences) > maxOccurrencesPerEvent {
		logger.Warn("CalendarSyncService: RRULE expansion capped", "feed", feed.Name, "uid", uid)
		occurrences = occurrences[:maxOccurrencesPerEvent]
	}

	var duration time.Duration
	if end != nil {
		duration = end.Sub(start)
	}

	out := make([]entity.ExternalEvent, 0, len(occurrences))
	for _, occStart := range occurrences {
		ev := entity.ExternalEvent{
			UID:   keyPrefix + ":" + occStart.UTC().Format(time.RFC3339),
			Title: title,
			Start: occStart,
		}
		if end != nil {
			occEnd := occStart.Add(duration)
			ev.End = &occEnd
		}
		out = append(out, ev)
	}

	return out, nil
}

// parseICSTime parses the basic EXDATE forms: UTC, floating and date-only
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	if t, err := time.Parse("20060102T150405Z", v); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("20060102T150405", v, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation("20060102", v, loc)
}
