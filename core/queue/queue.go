package queue

import (
	"encoding/json"
	"fmt"

	"groupcal/core/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TaskCalendarSyncUser = "calendar:sync_user"
	TaskCalendarSyncAll  = "calendar:sync_all"
)

// SyncUserPayload is the payload of a per-user calendar sync task
type SyncUserPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

// NewSyncUserTask builds an asynq task that syncs one user's external calendars
func NewSyncUserTask(userID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(SyncUserPayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCalendarSyncUser, payload), nil
}

// NewSyncAllTask builds the periodic task that fans out per-user syncs
func NewSyncAllTask() *asynq.Task {
	return asynq.NewTask(TaskCalendarSyncAll, nil)
}

func redisOpt() asynq.RedisClientOpt {
	cfg := config.Get()
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// NewClient creates an asynq client for enqueueing tasks
func NewClient() *asynq.Client {
	return asynq.NewClient(redisOpt())
}

// NewServer creates the asynq worker server
func NewServer() *asynq.Server {
	return asynq.NewServer(redisOpt(), asynq.Config{
		Concurrency: 4,
	})
}

// NewScheduler creates the asynq scheduler used for periodic sync fan-out
func NewScheduler() *asynq.Scheduler {
	return asynq.NewScheduler(redisOpt(), nil)
}

// SyncAllCronSpec returns the cron expression for the periodic full sync,
// derived from the configured interval.
func SyncAllCronSpec() string {
	cfg := config.Get()
	interval := cfg.Sync.IntervalMinutes
	if interval <= 0 || interval > 59 {
		return "@every 30m"
	}
	return fmt.Sprintf("@every %dm", interval)
}
