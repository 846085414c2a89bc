package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title   string     `json:"title"`
	Color   string     `json:"color"`
	StartAt time.Time  `json:"start_at"`
	EndAt   *time.Time `json:"end_at,omitempty"`
}

type CreateGroupEventRequest struct {
	Title   string     `json:"title"`
	Color   string     `json:"color"`
	StartAt time.Time  `json:"start_at"`
	EndAt   *time.Time `json:"end_at,omitempty"`
}

type ListEventsQuery struct {
	From time.Time `query:"from"`
	To   time.Time `query:"to"`
}

type EventResponse struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	GroupID   *uuid.UUID `json:"group_id,omitempty"`
	Title     string     `json:"title"`
	Color     string     `json:"color"`
	StartAt   time.Time  `json:"start_at"`
	EndAt     *time.Time `json:"end_at,omitempty"`
	Source    string     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
}
