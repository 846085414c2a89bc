package service

import (
	"context"

	"groupcal/core/constants"
	"groupcal/core/errors"
	"groupcal/core/logger"
	"groupcal/core/params"
	"groupcal/core/utils"
	"groupcal/modules/group/dto"
	"groupcal/modules/group/entity"
	"groupcal/modules/group/mapper"
	"groupcal/modules/group/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const joinKeySuffixLength = 8

// GroupService handles group business logic
type GroupService struct {
	repo repository.GroupRepositoryInterface
}

// GroupServiceInterface defines the service contract
type GroupServiceInterface interface {
	CreateGroup(ctx context.Context, ownerID uuid.UUID, req *dto.CreateGroupRequest) (*dto.GroupResponse, *errors.AppError)
	GetMyGroups(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*dto.PaginatedGroupResponse, *errors.AppError)
	GetGroup(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*dto.GroupResponse, *errors.AppError)
	GetMembers(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*dto.GroupMembersResponse, *errors.AppError)
	JoinByKey(ctx context.Context, userID uuid.UUID, req *dto.JoinGroupRequest) (*dto.GroupResponse, *errors.AppError)
	Leave(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) *errors.AppError
	DeleteGroup(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) *errors.AppError
	RegenerateJoinKey(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*dto.GroupResponse, *errors.AppError)
}

// NewGroupService creates a new group service
func NewGroupService(repo repository.GroupRepositoryInterface) GroupServiceInterface {
	return &GroupService{repo: repo}
}

// newJoinKey derives a human-readable shareable key from the group name
func newJoinKey(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "group"
	}
	return base + "-" + utils.GenerateID(joinKeySuffixLength)
}

// CreateGroup creates a group with the creator as first member
func (s *GroupService) CreateGroup(ctx context.Context, ownerID uuid.UUID, req *dto.CreateGroupRequest) (*dto.GroupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "group name is required", nil)
	}

	group := &entity.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		JoinKey:     newJoinKey(req.Name),
	}

	created, err := s.repo.CreateGroup(ctx, group)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create group failed", err)
	}

	logger.Info("GroupService:CreateGroup", "group_id", created.ID, "owner_id", ownerID)
	return mapper.ToGroupResponse(created), nil
}

// GetMyGroups lists the groups the user belongs to
func (s *GroupService) GetMyGroups(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*dto.PaginatedGroupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	groups, err := s.repo.GetGroupsByUserID(ctx, userID, params)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get groups failed", err)
	}

	return mapper.ToGroupPaginationResponse(groups), nil
}

// GetGroup returns group details; only members can see a group
func (s *GroupService) GetGroup(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*dto.GroupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	group, appErr := s.getGroupForMember(ctx, groupID, userID)
	if appErr != nil {
		return nil, appErr
	}

	if group.OwnerID == userID {
		return mapper.ToGroupResponse(group), nil
	}
	return mapper.ToGroupResponseWithoutKey(group), nil
}

// GetMembers lists the members of a group; only members can see the roster
func (s *GroupService) GetMembers(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*dto.GroupMembersResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.getGroupForMember(ctx, groupID, userID); appErr != nil {
		return nil, appErr
	}

	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get members failed", err)
	}

	memberResponses := make([]dto.MemberResponse, len(members))
	for i := range members {
		memberResponses[i] = *mapper.ToMemberResponse(&members[i])
	}

	return &dto.GroupMembersResponse{
		GroupID: groupID,
		Members: memberResponses,
	}, nil
}

// JoinByKey adds the user to the group identified by a join key.
// Joining a group you already belong to is a no-op.
func (s *GroupService) JoinByKey(ctx context.Context, userID uuid.UUID, req *dto.JoinGroupRequest) (*dto.GroupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req.JoinKey == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "join key is required", nil)
	}

	group, err := s.repo.GetGroupByJoinKey(ctx, req.JoinKey)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no group with that join key", nil)
	}

	if err := s.repo.AddMember(ctx, group.ID, userID); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "join group failed", err)
	}

	logger.Info("GroupService:JoinByKey", "group_id", group.ID, "user_id", userID)
	return mapper.ToGroupResponseWithoutKey(group), nil
}

// Leave removes the user from the group. The owner cannot leave their own
// group; they would have to delete it instead.
func (s *GroupService) Leave(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}
	if group.OwnerID == userID {
		return errors.NewAppError(errors.ErrForbidden, "owner cannot leave their own group", nil)
	}

	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "leave group failed", err)
	}

	return nil
}

// DeleteGroup removes the group and its memberships; only the owner may do this
func (s *GroupService) DeleteGroup(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}
	if group.OwnerID != userID {
		return errors.NewAppError(errors.ErrForbidden, "only the owner can delete the group", nil)
	}

	if err := s.repo.DeleteGroup(ctx, groupID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete group failed", err)
	}

	logger.Info("GroupService:DeleteGroup", "group_id", groupID)
	return nil
}

// RegenerateJoinKey rotates the join key; only the owner may do this
func (s *GroupService) RegenerateJoinKey(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*dto.GroupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}
	if group.OwnerID != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the owner can regenerate the join key", nil)
	}

	key := newJoinKey(group.Name)
	if err := s.repo.UpdateJoinKey(ctx, groupID, key); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update join key failed", err)
	}

	group.JoinKey = key
	return mapper.ToGroupResponse(group), nil
}

// getGroupForMember loads a group and verifies the caller's membership
func (s *GroupService) getGroupForMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*entity.Group, *errors.AppError) {
	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}

	isMember, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "check membership failed", err)
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
	}

	return group, nil
}
