package repository

import (
	"context"
	"database/sql"
	"time"

	"groupcal/core/database"
	"groupcal/core/logger"
	"groupcal/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepository handles event database operations
type EventRepository struct {
	DB database.Database
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	CreateGroupEvents(ctx context.Context, template *entity.Event, memberIDs []uuid.UUID) ([]entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetUserEvents(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]entity.Event, error)
	GetGroupEvents(ctx context.Context, groupID uuid.UUID) ([]entity.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error)
}

const eventColumns = `id, owner_id, group_id, title, color, start_at, end_at, source, external_uid, created_at, updated_at`

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (owner_id, group_id, title, color, start_at, end_at, source, external_uid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.OwnerID, event.GroupID, event.Title, event.Color,
		event.StartAt, event.EndAt, event.Source, event.ExternalUID)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

// CreateGroupEvents materializes one event row per member in a single
// transaction so a group event is either visible to everyone or no one.
func (r *EventRepository) CreateGroupEvents(ctx context.Context, template *entity.Event, memberIDs []uuid.UUID) ([]entity.Event, error) {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("EventRepository:CreateGroupEvents:BeginTx", err)
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (owner_id, group_id, title, color, start_at, end_at, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + eventColumns

	created := make([]entity.Event, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		var event entity.Event
		err := tx.GetContext(ctx, &event, query,
			memberID, template.GroupID, template.Title, template.Color,
			template.StartAt, template.EndAt, entity.SourceGroup)
		if err != nil {
			logger.Error("EventRepository:CreateGroupEvents", err)
			return nil, err
		}
		created = append(created, event)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("EventRepository:CreateGroupEvents:Commit", err)
		return nil, err
	}

	return created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

// GetUserEvents returns the owner's events intersecting [from, to),
// all sources. Point events count as intersecting when their instant
// falls inside the window.
func (r *EventRepository) GetUserEvents(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE owner_id = $1
		  AND start_at < $3
		  AND COALESCE(end_at, start_at) >= $2
		ORDER BY start_at
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, ownerID, from, to)
	if err != nil {
		logger.Error("EventRepository:GetUserEvents", err)
		return nil, err
	}

	return events, nil
}

// GetGroupEvents returns one row per scheduled group event, not the
// per-member copies.
func (r *EventRepository) GetGroupEvents(ctx context.Context, groupID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT DISTINCT ON (title, start_at) ` + eventColumns + `
		FROM events
		WHERE group_id = $1 AND source = $2
		ORDER BY title, start_at
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, groupID, entity.SourceGroup)
	if err != nil {
		logger.Error("EventRepository:GetGroupEvents", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error) {
	query := `DELETE FROM events WHERE id = $1 AND owner_id = $2`

	result, err := r.DB.SQLx().ExecContext(ctx, query, id, ownerID)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("EventRepository:DeleteEvent - RowsAffected", err)
		return false, err
	}

	return rowsAffected > 0, nil
}
