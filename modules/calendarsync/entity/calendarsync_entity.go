package entity

import (
	"time"

	"groupcal/core/entity"

	"github.com/google/uuid"
)

const ProviderGoogle = "google"

// CalendarConnection stores a user's OAuth connection to a calendar
// provider. Tokens never appear in JSON output.
type CalendarConnection struct {
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Provider       string    `db:"provider" json:"provider"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string    `db:"calendar_email" json:"calendar_email"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	entity.BaseEntity
}

// CalendarFeed is a read-only ICS subscription (a shared calendar URL)
type CalendarFeed struct {
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Name         string     `db:"name" json:"name"`
	URL          string     `db:"url" json:"url"`
	LastSyncedAt *time.Time `db:"last_synced_at" json:"last_synced_at,omitempty"`
	LastEtag     *string    `db:"last_etag" json:"-"`
	entity.BaseEntity
}

// ExternalEvent is one entry pulled from an upstream calendar, keyed by
// the provider's stable UID so repeated syncs upsert instead of
// duplicating.
type ExternalEvent struct {
	UID   string
	Title string
	Start time.Time
	End   *time.Time
}
