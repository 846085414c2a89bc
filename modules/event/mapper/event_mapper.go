package mapper

import (
	"groupcal/modules/event/dto"
	"groupcal/modules/event/entity"
)

func ToEventResponse(event *entity.Event) *dto.EventResponse {
	return &dto.EventResponse{
		ID:        event.ID,
		OwnerID:   event.OwnerID,
		GroupID:   event.GroupID,
		Title:     event.Title,
		Color:     event.Color,
		StartAt:   event.StartAt,
		EndAt:     event.EndAt,
		Source:    event.Source,
		CreatedAt: event.CreatedAt,
	}
}

func ToEventListResponse(events []entity.Event) *dto.EventListResponse {
	responses := make([]dto.EventResponse, len(events))
	for i := range events {
		responses[i] = *ToEventResponse(&events[i])
	}
	return &dto.EventListResponse{Events: responses}
}
