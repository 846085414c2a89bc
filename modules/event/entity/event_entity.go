package entity

import (
	"time"

	"groupcal/core/entity"

	"github.com/google/uuid"
)

// Event sources
const (
	SourcePersonal = "personal"
	SourceGroup    = "group"
	SourceExternal = "external"
)

// Event is a calendar entry owned by a single user. Group events are
// materialized as one row per member so every calendar query stays a
// single-owner lookup. EndAt is nil for point events (reminders).
type Event struct {
	OwnerID     uuid.UUID  `db:"owner_id" json:"owner_id"`
	GroupID     *uuid.UUID `db:"group_id" json:"group_id,omitempty"`
	Title       string     `db:"title" json:"title"`
	Color       string     `db:"color" json:"color"`
	StartAt     time.Time  `db:"start_at" json:"start_at"`
	EndAt       *time.Time `db:"end_at" json:"end_at,omitempty"`
	Source      string     `db:"source" json:"source"`
	ExternalUID *string    `db:"external_uid" json:"external_uid,omitempty"`
	entity.BaseEntity
}
