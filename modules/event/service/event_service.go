package service

import (
	"context"
	"fmt"

	"groupcal/core/constants"
	"groupcal/core/errors"
	"groupcal/core/logger"
	"groupcal/modules/event/dto"
	"groupcal/modules/event/entity"
	"groupcal/modules/event/mapper"
	"groupcal/modules/event/repository"
	groupRepository "groupcal/modules/group/repository"
	notificationDto "groupcal/modules/notification/dto"
	notificationEntity "groupcal/modules/notification/entity"
	notificationService "groupcal/modules/notification/service"

	"github.com/google/uuid"
)

// EventService handles event business logic
type EventService struct {
	repo          repository.EventRepositoryInterface
	groupRepo     groupRepository.GroupRepositoryInterface
	notifications notificationService.NotificationServiceInterface
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	CreatePersonalEvent(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	CreateGroupEvent(ctx context.Context, groupID uuid.UUID, userID uuid.UUID, req *dto.CreateGroupEventRequest) (*dto.EventListResponse, *errors.AppError)
	GetMyEvents(ctx context.Context, userID uuid.UUID, query *dto.ListEventsQuery) (*dto.EventListResponse, *errors.AppError)
	GetGroupEvents(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*dto.EventListResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) *errors.AppError
}

// NewEventService creates a new event service
func NewEventService(
	repo repository.EventRepositoryInterface,
	groupRepo groupRepository.GroupRepositoryInterface,
	notifications notificationService.NotificationServiceInterface,
) EventServiceInterface {
	return &EventService{
		repo:          repo,
		groupRepo:     groupRepo,
		notifications: notifications,
	}
}

func validateEventTimes(req *dto.CreateEventRequest) *errors.AppError {
	if req.Title == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "event title is required", nil)
	}
	if req.StartAt.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "start_at is required", nil)
	}
	if req.EndAt != nil && req.EndAt.Before(req.StartAt) {
		return errors.NewAppError(errors.ErrInvalidInput, "end_at must not be before start_at", nil)
	}
	return nil
}

// CreatePersonalEvent creates an event on the user's own calendar
func (s *EventService) CreatePersonalEvent(ctx context.Context, userID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if appErr := validateEventTimes(req); appErr != nil {
		return nil, appErr
	}

	event := &entity.Event{
		OwnerID: userID,
		Title:   req.Title,
		Color:   req.Color,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Source:  entity.SourcePersonal,
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create event failed", err)
	}

	return mapper.ToEventResponse(created), nil
}

// CreateGroupEvent schedules an event for every current member of the
// group. Each member gets their own calendar row and a notification.
func (s *EventService) CreateGroupEvent(ctx context.Context, groupID uuid.UUID, userID uuid.UUID, req *dto.CreateGroupEventRequest) (*dto.EventListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	eventReq := dto.CreateEventRequest{Title: req.Title, Color: req.Color, StartAt: req.StartAt, EndAt: req.EndAt}
	if appErr := validateEventTimes(&eventReq); appErr != nil {
		return nil, appErr
	}

	group, err := s.groupRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group failed", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "group not found", nil)
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "check membership failed", err)
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
	}

	members, err := s.groupRepo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get members failed", err)
	}

	memberIDs := make([]uuid.UUID, len(members))
	for i := range members {
		memberIDs[i] = members[i].UserID
	}

	template := &entity.Event{
		GroupID: &groupID,
		Title:   req.Title,
		Color:   req.Color,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
	}

	created, err := s.repo.CreateGroupEvents(ctx, template, memberIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create group event failed", err)
	}

	// Notification delivery is best effort, the event itself is committed
	for _, memberID := range memberIDs {
		if memberID == userID {
			continue
		}
		notifErr := s.notifications.Create(ctx, &notificationDto.CreateNotificationRequest{
			UserID:  memberID,
			Title:   "New group event",
			Message: fmt.Sprintf("%q was scheduled in %s", req.Title, group.Name),
			Type:    notificationEntity.TypeGroupEvent,
			Data: map[string]interface{}{
				"group_id": groupID.String(),
				"start_at": req.StartAt,
			},
		})
		if notifErr != nil {
			logger.Warn("EventService:CreateGroupEvent - notify failed", "user_id", memberID, "error", notifErr)
		}
	}

	logger.Info("EventService:CreateGroupEvent", "group_id", groupID, "members", len(memberIDs))
	return mapper.ToEventListResponse(created), nil
}

// GetMyEvents lists the user's events intersecting the requested window
func (s *EventService) GetMyEvents(ctx context.Context, userID uuid.UUID, query *dto.ListEventsQuery) (*dto.EventListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if query.From.IsZero() || query.To.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "from and to are required", nil)
	}
	if !query.To.After(query.From) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "to must be after from", nil)
	}

	events, err := s.repo.GetUserEvents(ctx, userID, query.From, query.To)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get events failed", err)
	}

	return mapper.ToEventListResponse(events), nil
}

// GetGroupEvents lists a group's scheduled events; only members may see them
func (s *EventService) GetGroupEvents(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (*dto.EventListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "check membership failed", err)
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
	}

	events, err := s.repo.GetGroupEvents(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get group events failed", err)
	}

	return mapper.ToEventListResponse(events), nil
}

// DeleteEvent removes an event owned by the user
func (s *EventService) DeleteEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	deleted, err := s.repo.DeleteEvent(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete event failed", err)
	}
	if !deleted {
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	return nil
}
