package repository

import (
	"context"
	"database/sql"
	"time"

	"groupcal/core/database"
	"groupcal/core/logger"
	"groupcal/modules/calendarsync/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CalendarSyncRepository handles connection, feed and external event storage
type CalendarSyncRepository struct {
	DB database.Database
}

// NewCalendarSyncRepository creates a new repository instance
func NewCalendarSyncRepository(db database.Database) *CalendarSyncRepository {
	return &CalendarSyncRepository{DB: db}
}

// CalendarSyncRepositoryInterface defines the repository contract
type CalendarSyncRepositoryInterface interface {
	// Connections
	UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error
	GetConnection(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateConnectionTokens(ctx context.Context, conn *entity.CalendarConnection) error
	DeactivateConnection(ctx context.Context, userID uuid.UUID, provider string) error

	// Feeds
	CreateFeed(ctx context.Context, feed *entity.CalendarFeed) (*entity.CalendarFeed, error)
	GetFeedsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarFeed, error)
	MarkFeedSynced(ctx context.Context, feedID uuid.UUID, etag *string) error
	DeleteFeed(ctx context.Context, feedID uuid.UUID, userID uuid.UUID) (bool, error)

	// External events
	UpsertExternalEvents(ctx context.Context, ownerID uuid.UUID, events []entity.ExternalEvent) error
	DeleteExternalEventsNotIn(ctx context.Context, ownerID uuid.UUID, from, to time.Time, keepUIDs []string) error

	// Sync fan-out
	GetSyncableUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ===================== Connections =====================

func (r *CalendarSyncRepository) UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		INSERT INTO calendar_connections (user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			calendar_email = EXCLUDED.calendar_email,
			is_active = true,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		conn.UserID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarEmail,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		logger.Error("CalendarSyncRepository:UpsertConnection", err)
		return err
	}
	return nil
}

func (r *CalendarSyncRepository) GetConnection(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = $1 AND provider = $2 AND is_active = true
	`

	var conn entity.CalendarConnection
	err := r.DB.GetContext(ctx, &conn, query, userID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarSyncRepository:GetConnection", err)
		return nil, err
	}

	return &conn, nil
}

func (r *CalendarSyncRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC
	`

	var connections []entity.CalendarConnection
	err := r.DB.SelectContext(ctx, &connections, query, userID)
	if err != nil {
		logger.Error("CalendarSyncRepository:GetConnectionsByUserID", err)
		return nil, err
	}

	return connections, nil
}

func (r *CalendarSyncRepository) UpdateConnectionTokens(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, refresh_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE id = $4
	`
	if err := r.DB.ExecContext(ctx, query, conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.ID); err != nil {
		logger.Error("CalendarSyncRepository:UpdateConnectionTokens", err)
		return err
	}
	return nil
}

func (r *CalendarSyncRepository) DeactivateConnection(ctx context.Context, userID uuid.UUID, provider string) error {
	query := `
		UPDATE calendar_connections
		SET is_active = false, updated_at = NOW()
		WHERE user_id = $1 AND provider = $2
	`
	if err := r.DB.ExecContext(ctx, query, userID, provider); err != nil {
		logger.Error("CalendarSyncRepository:DeactivateConnection", err)
		return err
	}
	return nil
}

// ===================== Feeds =====================

func (r *CalendarSyncRepository) CreateFeed(ctx context.Context, feed *entity.CalendarFeed) (*entity.CalendarFeed, error) {
	query := `
		INSERT INTO calendar_feeds (user_id, name, url)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, url, last_synced_at, last_etag, created_at, updated_at
	`

	var created entity.CalendarFeed
	err := r.DB.GetContext(ctx, &created, query, feed.UserID, feed.Name, feed.URL)
	if err != nil {
		logger.Error("CalendarSyncRepository:CreateFeed", err)
		return nil, err
	}

	return &created, nil
}

func (r *CalendarSyncRepository) GetFeedsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarFeed, error) {
	query := `
		SELECT id, user_id, name, url, last_synced_at, last_etag, created_at, updated_at
		FROM calendar_feeds
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var feeds []entity.CalendarFeed
	err := r.DB.SelectContext(ctx, &feeds, query, userID)
	if err != nil {
		logger.Error("CalendarSyncRepository:GetFeedsByUserID", err)
		return nil, err
	}

	return feeds, nil
}

func (r *CalendarSyncRepository) MarkFeedSynced(ctx context.Context, feedID uuid.UUID, etag *string) error {
	query := `
		UPDATE calendar_feeds
		SET last_synced_at = NOW(), last_etag = $1, updated_at = NOW()
		WHERE id = $2
	`
	if err := r.DB.ExecContext(ctx, query, etag, feedID); err != nil {
		logger.Error("CalendarSyncRepository:MarkFeedSynced", err)
		return err
	}
	return nil
}

func (r *CalendarSyncRepository) DeleteFeed(ctx context.Context, feedID uuid.UUID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM calendar_feeds WHERE id = $1 AND user_id = $2`

	result, err := r.DB.SQLx().ExecContext(ctx, query, feedID, userID)
	if err != nil {
		logger.Error("CalendarSyncRepository:DeleteFeed", err)
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// ===================== External events =====================

// UpsertExternalEvents writes pulled events into the user's calendar.
// The (owner_id, external_uid) pair is the sync key.
func (r *CalendarSyncRepository) UpsertExternalEvents(ctx context.Context, ownerID uuid.UUID, events []entity.ExternalEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("CalendarSyncRepository:UpsertExternalEvents:BeginTx", err)
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (owner_id, title, color, start_at, end_at, source, external_uid)
		VALUES ($1, $2, '', $3, $4, 'external', $5)
		ON CONFLICT (owner_id, external_uid) DO UPDATE SET
			title = EXCLUDED.title,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			updated_at = NOW()
	`
	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, query, ownerID, ev.Title, ev.Start, ev.End, ev.UID); err != nil {
			logger.Error("CalendarSyncRepository:UpsertExternalEvents", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("CalendarSyncRepository:UpsertExternalEvents:Commit", err)
		return err
	}
	return nil
}

// DeleteExternalEventsNotIn removes external events inside the horizon
// that the upstream no longer reports, so cancellations free the slot.
func (r *CalendarSyncRepository) DeleteExternalEventsNotIn(ctx context.Context, ownerID uuid.UUID, from, to time.Time, keepUIDs []string) error {
	if len(keepUIDs) == 0 {
		query := `
			DELETE FROM events
			WHERE owner_id = $1 AND source = 'external'
			  AND start_at >= $2 AND start_at < $3
		`
		if err := r.DB.ExecContext(ctx, query, ownerID, from, to); err != nil {
			logger.Error("CalendarSyncRepository:DeleteExternalEventsNotIn", err)
			return err
		}
		return nil
	}

	query, args, err := sqlx.In(`
		DELETE FROM events
		WHERE owner_id = ? AND source = 'external'
		  AND start_at >= ? AND start_at < ?
		  AND external_uid NOT IN (?)
	`, ownerID, from, to, keepUIDs)
	if err != nil {
		return err
	}

	query = r.DB.SQLx().Rebind(query)
	if err := r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.Error("CalendarSyncRepository:DeleteExternalEventsNotIn", err)
		return err
	}
	return nil
}

// ===================== Sync fan-out =====================

// GetSyncableUserIDs returns every user with an active connection or at
// least one feed, for the periodic full sync.
func (r *CalendarSyncRepository) GetSyncableUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT user_id FROM calendar_connections WHERE is_active = true
		UNION
		SELECT user_id FROM calendar_feeds
	`

	var userIDs []uuid.UUID
	err := r.DB.SelectContext(ctx, &userIDs, query)
	if err != nil {
		logger.Error("CalendarSyncRepository:GetSyncableUserIDs", err)
		return nil, err
	}

	return userIDs, nil
}
