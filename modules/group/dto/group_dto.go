package dto

import (
	"time"

	"groupcal/core/dto"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

type JoinGroupRequest struct {
	JoinKey string `json:"join_key" validate:"required"`
}

// ===================== Response DTOs =====================

type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	JoinKey     string    `json:"join_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

type GroupMembersResponse struct {
	GroupID uuid.UUID        `json:"group_id"`
	Members []MemberResponse `json:"members"`
}

type PaginatedGroupResponse = dto.Pagination[GroupResponse]
