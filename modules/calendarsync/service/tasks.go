package service

import (
	"context"
	"encoding/json"
	"fmt"

	"groupcal/core/logger"
	"groupcal/core/queue"

	"github.com/hibiken/asynq"
)

// TaskHandler adapts the sync service to asynq workers
type TaskHandler struct {
	svc CalendarSyncServiceInterface
}

// NewTaskHandler creates the worker-side handler set
func NewTaskHandler(svc CalendarSyncServiceInterface) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Register attaches the calendar sync handlers to the worker mux
func (h *TaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskCalendarSyncUser, h.HandleSyncUser)
	mux.HandleFunc(queue.TaskCalendarSyncAll, h.HandleSyncAll)
}

// HandleSyncUser processes a single-user sync task
func (h *TaskHandler) HandleSyncUser(ctx context.Context, t *asynq.Task) error {
	var payload queue.SyncUserPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode sync payload: %w", err)
	}

	if err := h.svc.SyncUser(ctx, payload.UserID); err != nil {
		logger.Error("TaskHandler:HandleSyncUser", err)
		return err
	}
	return nil
}

// HandleSyncAll fans out one task per syncable user
func (h *TaskHandler) HandleSyncAll(ctx context.Context, t *asynq.Task) error {
	if err := h.svc.SyncAll(ctx); err != nil {
		logger.Error("TaskHandler:HandleSyncAll", err)
		return err
	}
	return nil
}
