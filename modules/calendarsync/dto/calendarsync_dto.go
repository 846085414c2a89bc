package dto

import (
	"time"

	"github.com/google/uuid"
)

// OAuthURLResponse carries the Google consent URL for the client to open
type OAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type ConnectionResponse struct {
	ID            uuid.UUID `json:"id"`
	Provider      string    `json:"provider"`
	CalendarEmail string    `json:"calendar_email"`
	IsActive      bool      `json:"is_active"`
	ConnectedAt   time.Time `json:"connected_at"`
}

type ConnectionListResponse struct {
	Connections []ConnectionResponse `json:"connections"`
}

type AddFeedRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type FeedResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

type FeedListResponse struct {
	Feeds []FeedResponse `json:"feeds"`
}

type SyncQueuedResponse struct {
	Queued bool `json:"queued"`
}
