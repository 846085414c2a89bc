package repository

import (
	"context"
	"time"

	"groupcal/core/database"
	"groupcal/core/logger"
	"groupcal/modules/availability/entity"

	"github.com/google/uuid"
)

// AvailabilityRepository fetches member calendars for the engine
type AvailabilityRepository struct {
	DB database.Database
}

// NewAvailabilityRepository creates a new repository instance
func NewAvailabilityRepository(db database.Database) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

// memberEventRow carries one joined row. Event columns are nullable
// because members with no events in the window still produce a row.
type memberEventRow struct {
	OwnerID uuid.UUID  `db:"owner_id"`
	StartAt *time.Time `db:"start_at"`
	EndAt   *time.Time `db:"end_at"`
	Source  *string    `db:"source"`
}

// GroupExists reports whether the group is known
func (r *AvailabilityRepository) GroupExists(ctx context.Context, groupID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`

	err := r.DB.GetContext(ctx, &exists, query, groupID)
	if err != nil {
		logger.Error("AvailabilityRepository:GroupExists", err)
		return false, err
	}

	return exists, nil
}

// FetchGroupEvents returns every member's events intersecting [from, to)
// in a single query. Members without events appear in the result with an
// empty slice so the engine sees them as fully free. A group with no
// members yields an empty map.
func (r *AvailabilityRepository) FetchGroupEvents(ctx context.Context, groupID uuid.UUID, from, to time.Time) (map[uuid.UUID][]entity.MemberEvent, error) {
	query := `
		SELECT gm.user_id AS owner_id, e.start_at, e.end_at, e.source
		FROM group_members gm
		LEFT JOIN events e
		  ON e.owner_id = gm.user_id
		 AND e.start_at < $3
		 AND COALESCE(e.end_at, e.start_at) >= $2
		WHERE gm.group_id = $1
		ORDER BY gm.user_id, e.start_at
	`

	var rows []memberEventRow
	err := r.DB.SelectContext(ctx, &rows, query, groupID, from, to)
	if err != nil {
		logger.Error("AvailabilityRepository:FetchGroupEvents", err)
		return nil, err
	}

	events := make(map[uuid.UUID][]entity.MemberEvent)
	for _, row := range rows {
		if _, ok := events[row.OwnerID]; !ok {
			events[row.OwnerID] = []entity.MemberEvent{}
		}
		if row.StartAt == nil {
			continue
		}
		source := ""
		if row.Source != nil {
			source = *row.Source
		}
		events[row.OwnerID] = append(events[row.OwnerID], entity.MemberEvent{
			OwnerID: row.OwnerID,
			Start:   *row.StartAt,
			End:     row.EndAt,
			Source:  source,
		})
	}

	return events, nil
}
