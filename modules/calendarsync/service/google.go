package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"groupcal/core/config"
	"groupcal/core/logger"
	"groupcal/modules/calendarsync/entity"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleEventsAPI       = googleCalendarAPIBase + "/calendars/primary/events"
	googleUserInfoAPI     = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var googleScopes = []string{
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/userinfo.email",
}

func googleOAuthConfig() *oauth2.Config {
	cfg := config.Get()
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       googleScopes,
	}
}

// ensureValidToken returns a usable access token, refreshing through the
// oauth2 token source when the stored one expires within five minutes.
func (s *CalendarSyncService) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	if time.Now().Before(conn.TokenExpiresAt.Add(-5 * time.Minute)) {
		return conn.AccessToken, nil
	}

	logger.Info("CalendarSyncService:ensureValidToken - refreshing", "user_id", conn.UserID)

	tokenSource := googleOAuthConfig().TokenSource(ctx, &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt,
	})

	token, err := tokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("refresh google token: %w", err)
	}

	conn.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		conn.RefreshToken = token.RefreshToken
	}
	conn.TokenExpiresAt = token.Expiry

	if err := s.repo.UpdateConnectionTokens(ctx, conn); err != nil {
		logger.Error("CalendarSyncService:ensureValidToken - persist failed", err)
	}

	return token.AccessToken, nil
}

// fetchGoogleEmail resolves the account email for a freshly exchanged token
func fetchGoogleEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoAPI, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("google userinfo error: %d %s", resp.StatusCode, string(body))
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	return info.Email, nil
}

// fetchGoogleEvents pulls the primary calendar's events in [from, to)
// with recurrences already expanded by the API.
func fetchGoogleEvents(ctx context.Context, accessToken string, from, to time.Time) ([]entity.ExternalEvent, error) {
	params := url.Values{}
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")
	params.Set("timeMin", from.Format(time.RFC3339))
	params.Set("timeMax", to.Format(time.RFC3339))
	params.Set("maxResults", "2500")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleEventsAPI+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google events API error: %d %s", resp.StatusCode, string(body))
	}

	var result struct {
		Items []struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			Summary string `json:"summary"`
			Start   struct {
				DateTime string `json:"dateTime"`
				Date     string `json:"date"`
			} `json:"start"`
			End struct {
				DateTime string `json:"dateTime"`
				Date     string `json:"date"`
			} `json:"end"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	events := make([]entity.ExternalEvent, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Status == "cancelled" {
			continue
		}

		start, ok := parseGoogleTime(item.Start.DateTime, item.Start.Date)
		if !ok {
			continue
		}

		ev := entity.ExternalEvent{
			UID:   "google:" + item.ID,
			Title: item.Summary,
			Start: start,
		}
		if end, ok := parseGoogleTime(item.End.DateTime, item.End.Date); ok {
			ev.End = &end
		}
		events = append(events, ev)
	}

	return events, nil
}

// parseGoogleTime handles both timed (dateTime) and all-day (date) values
func parseGoogleTime(dateTime, date string) (time.Time, bool) {
	if dateTime != "" {
		t, err := time.Parse(time.RFC3339, dateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
