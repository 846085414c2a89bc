package entity

import (
	"time"

	"groupcal/core/entity"

	"github.com/google/uuid"
)

type Group struct {
	Name string `db:"name"`

	Description string `db:"description"`

	OwnerID uuid.UUID `db:"owner_id"`

	// JoinKey is the shareable key others use to join this group.
	JoinKey string `db:"join_key"`

	entity.BaseEntity
}

type GroupMember struct {
	GroupID   uuid.UUID `db:"group_id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// MemberDetail is a membership row joined with the user profile
type MemberDetail struct {
	UserID   uuid.UUID `db:"user_id"`
	Username string    `db:"username"`
	Email    string    `db:"email"`
	JoinedAt time.Time `db:"joined_at"`
}

type PaginatedGroupEntity = entity.Pagination[Group]
