package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"groupcal/core/cache"
	"groupcal/core/constants"
	"groupcal/core/errors"
	"groupcal/core/logger"
	"groupcal/core/queue"
	"groupcal/core/utils"
	"groupcal/modules/calendarsync/dto"
	"groupcal/modules/calendarsync/entity"
	"groupcal/modules/calendarsync/repository"
	notificationDto "groupcal/modules/notification/dto"
	notificationEntity "groupcal/modules/notification/entity"
	notificationService "groupcal/modules/notification/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/oauth2"
)

const oauthStateLength = 32

// CalendarSyncService mirrors external calendars into the events table
type CalendarSyncService struct {
	repo          repository.CalendarSyncRepositoryInterface
	cache         cache.Cache
	queueClient   *asynq.Client
	notifications notificationService.NotificationServiceInterface
}

// CalendarSyncServiceInterface defines the service contract
type CalendarSyncServiceInterface interface {
	GoogleLoginURL(ctx context.Context, userID uuid.UUID) (*dto.OAuthURLResponse, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, state, code string) (*dto.ConnectionResponse, *errors.AppError)
	GetConnections(ctx context.Context, userID uuid.UUID) (*dto.ConnectionListResponse, *errors.AppError)
	Disconnect(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError

	AddFeed(ctx context.Context, userID uuid.UUID, req *dto.AddFeedRequest) (*dto.FeedResponse, *errors.AppError)
	ListFeeds(ctx context.Context, userID uuid.UUID) (*dto.FeedListResponse, *errors.AppError)
	DeleteFeed(ctx context.Context, feedID uuid.UUID, userID uuid.UUID) *errors.AppError

	TriggerSync(ctx context.Context, userID uuid.UUID) (*dto.SyncQueuedResponse, *errors.AppError)
	SyncUser(ctx context.Context, userID uuid.UUID) error
	SyncAll(ctx context.Context) error
}

// NewCalendarSyncService creates a new calendar sync service
func NewCalendarSyncService(
	repo repository.CalendarSyncRepositoryInterface,
	cache cache.Cache,
	queueClient *asynq.Client,
	notifications notificationService.NotificationServiceInterface,
) CalendarSyncServiceInterface {
	return &CalendarSyncService{
		repo:          repo,
		cache:         cache,
		queueClient:   queueClient,
		notifications: notifications,
	}
}

// ===================== Google OAuth =====================

// GoogleLoginURL starts the consent flow. The state nonce is bound to
// the user in redis so the callback can be served unauthenticated.
func (s *CalendarSyncService) GoogleLoginURL(ctx context.Context, userID uuid.UUID) (*dto.OAuthURLResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	state := utils.GenerateRandomString(oauthStateLength)
	if err := s.cache.SetOAuthState(ctx, state, userID.String()); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "store oauth state failed", err)
	}

	authURL := googleOAuthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	return &dto.OAuthURLResponse{URL: authURL, State: state}, nil
}

// HandleGoogleCallback exchanges the authorization code, stores the
// connection and queues a first sync.
func (s *CalendarSyncService) HandleGoogleCallback(ctx context.Context, state, code string) (*dto.ConnectionResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	if state == "" || code == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "state and code are required", nil)
	}

	userIDStr, err := s.cache.ConsumeOAuthState(ctx, state)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "read oauth state failed", err)
	}
	if userIDStr == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown or expired oauth state", nil)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "corrupt oauth state", err)
	}

	token, err := googleOAuthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpstreamFetch, "google code exchange failed", err)
	}

	email, err := fetchGoogleEmail(ctx, token.AccessToken)
	if err != nil {
		logger.Warn("CalendarSyncService:HandleGoogleCallback - userinfo failed", "error", err)
	}

	conn := &entity.CalendarConnection{
		UserID:         userID,
		Provider:       entity.ProviderGoogle,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: token.Expiry,
		CalendarEmail:  email,
		IsActive:       true,
	}
	if err := s.repo.UpsertConnection(ctx, conn); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "store connection failed", err)
	}

	s.enqueueSync(userID)

	logger.Info("CalendarSyncService:HandleGoogleCallback", "user_id", userID, "email", email)
	return &dto.ConnectionResponse{
		ID:            conn.ID,
		Provider:      conn.Provider,
		CalendarEmail: conn.CalendarEmail,
		IsActive:      conn.IsActive,
		ConnectedAt:   conn.CreatedAt,
	}, nil
}

// GetConnections lists the user's active provider connections
func (s *CalendarSyncService) GetConnections(ctx context.Context, userID uuid.UUID) (*dto.ConnectionListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	connections, err := s.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get connections failed", err)
	}

	result := make([]dto.ConnectionResponse, len(connections))
	for i, conn := range connections {
		result[i] = dto.ConnectionResponse{
			ID:            conn.ID,
			Provider:      conn.Provider,
			CalendarEmail: conn.CalendarEmail,
			IsActive:      conn.IsActive,
			ConnectedAt:   conn.CreatedAt,
		}
	}
	return &dto.ConnectionListResponse{Connections: result}, nil
}

// Disconnect deactivates a provider connection
func (s *CalendarSyncService) Disconnect(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if provider != entity.ProviderGoogle {
		return errors.NewAppError(errors.ErrInvalidInput, "unknown provider", nil)
	}

	if err := s.repo.DeactivateConnection(ctx, userID, provider); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "disconnect failed", err)
	}
	return nil
}

// ===================== Feeds =====================

// AddFeed subscribes the user to an ICS URL and queues a first sync
func (s *CalendarSyncService) AddFeed(ctx context.Context, userID uuid.UUID, req *dto.AddFeedRequest) (*dto.FeedResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "feed name is required", nil)
	}
	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "feed url must be http or https", nil)
	}

	feed, err := s.repo.CreateFeed(ctx, &entity.CalendarFeed{
		UserID: userID,
		Name:   req.Name,
		URL:    req.URL,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create feed failed", err)
	}

	s.enqueueSync(userID)

	return &dto.FeedResponse{
		ID:           feed.ID,
		Name:         feed.Name,
		URL:          feed.URL,
		LastSyncedAt: feed.LastSyncedAt,
	}, nil
}

// ListFeeds lists the user's ICS subscriptions
func (s *CalendarSyncService) ListFeeds(ctx context.Context, userID uuid.UUID) (*dto.FeedListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	feeds, err := s.repo.GetFeedsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get feeds failed", err)
	}

	result := make([]dto.FeedResponse, len(feeds))
	for i, feed := range feeds {
		result[i] = dto.FeedResponse{
			ID:           feed.ID,
			Name:         feed.Name,
			URL:          feed.URL,
			LastSyncedAt: feed.LastSyncedAt,
		}
	}
	return &dto.FeedListResponse{Feeds: result}, nil
}

// DeleteFeed removes an ICS subscription owned by the user
func (s *CalendarSyncService) DeleteFeed(ctx context.Context, feedID uuid.UUID, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	deleted, err := s.repo.DeleteFeed(ctx, feedID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete feed failed", err)
	}
	if !deleted {
		return errors.NewAppError(errors.ErrNotFound, "feed not found", nil)
	}
	return nil
}

// ===================== Sync =====================

// TriggerSync queues an immediate sync of the user's external calendars
func (s *CalendarSyncService) TriggerSync(ctx context.Context, userID uuid.UUID) (*dto.SyncQueuedResponse, *errors.AppError) {
	task, err := queue.NewSyncUserTask(userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "build sync task failed", err)
	}
	if _, err := s.queueClient.EnqueueContext(ctx, task); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "enqueue sync task failed", err)
	}
	return &dto.SyncQueuedResponse{Queued: true}, nil
}

func (s *CalendarSyncService) enqueueSync(userID uuid.UUID) {
	task, err := queue.NewSyncUserTask(userID)
	if err != nil {
		logger.Error("CalendarSyncService:enqueueSync - build task", err)
		return
	}
	if _, err := s.queueClient.Enqueue(task); err != nil {
		logger.Error("CalendarSyncService:enqueueSync - enqueue", err)
	}
}

// syncHorizon is the absolute window mirrored from upstream calendars
func syncHorizon() (time.Time, time.Time) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, constants.SyncHorizonWeeks*7)
	return from, to
}

// SyncUser pulls every external source of one user and reconciles the
// events table: present upstream events are upserted, vanished ones are
// deleted so cancellations free the calendar again.
func (s *CalendarSyncService) SyncUser(ctx context.Context, userID uuid.UUID) error {
	from, to := syncHorizon()

	var pulled []entity.ExternalEvent
	var failures []string
	pruneSafe := true

	if conn, err := s.repo.GetConnection(ctx, userID, entity.ProviderGoogle); err != nil {
		return fmt.Errorf("load google connection: %w", err)
	} else if conn != nil {
		events, err := s.syncGoogle(ctx, conn, from, to)
		if err != nil {
			logger.Error("CalendarSyncService:SyncUser - google", err)
			failures = append(failures, "Google Calendar")
		} else {
			pulled = append(pulled, events...)
		}
	}

	feeds, err := s.repo.GetFeedsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load feeds: %w", err)
	}
	for i := range feeds {
		events, skipped, err := s.syncFeed(ctx, &feeds[i], from, to)
		if err != nil {
			logger.Error("CalendarSyncService:SyncUser - feed", err)
			failures = append(failures, feeds[i].Name)
			continue
		}
		if skipped {
			// 304 means the feed is unchanged; its mirrored events are
			// already correct but absent from this pull.
			pruneSafe = false
			continue
		}
		pulled = append(pulled, events...)
	}

	if err := s.repo.UpsertExternalEvents(ctx, userID, pulled); err != nil {
		return fmt.Errorf("upsert external events: %w", err)
	}

	// Only reconcile deletions when every source answered with a full
	// listing, otherwise a transient outage would wipe that source's
	// mirrored events.
	if len(failures) == 0 && pruneSafe {
		keepUIDs := make([]string, len(pulled))
		for i, ev := range pulled {
			keepUIDs[i] = ev.UID
		}
		if err := s.repo.DeleteExternalEventsNotIn(ctx, userID, from, to, keepUIDs); err != nil {
			return fmt.Errorf("prune external events: %w", err)
		}
	}

	for _, name := range failures {
		notifErr := s.notifications.Create(ctx, &notificationDto.CreateNotificationRequest{
			UserID:  userID,
			Title:   "Calendar sync failed",
			Message: fmt.Sprintf("Could not sync %s, will retry on the next cycle", name),
			Type:    notificationEntity.TypeSyncFailed,
		})
		if notifErr != nil {
			logger.Warn("CalendarSyncService:SyncUser - notify failed", "error", notifErr)
		}
	}

	logger.Info("CalendarSyncService:SyncUser",
		"user_id", userID,
		"events", len(pulled),
		"failures", len(failures),
	)
	return nil
}

func (s *CalendarSyncService) syncGoogle(ctx context.Context, conn *entity.CalendarConnection, from, to time.Time) ([]entity.ExternalEvent, error) {
	accessToken, err := s.ensureValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}
	return fetchGoogleEvents(ctx, accessToken, from, to)
}

func (s *CalendarSyncService) syncFeed(ctx context.Context, feed *entity.CalendarFeed, from, to time.Time) ([]entity.ExternalEvent, bool, error) {
	body, etag, notModified, err := fetchFeed(ctx, feed)
	if err != nil {
		return nil, false, err
	}
	if notModified {
		if err := s.repo.MarkFeedSynced(ctx, feed.ID, feed.LastEtag); err != nil {
			logger.Warn("CalendarSyncService:syncFeed - mark synced failed", "error", err)
		}
		return nil, true, nil
	}

	events, err := parseFeedEvents(feed, body, from, to)
	if err != nil {
		return nil, false, err
	}

	if err := s.repo.MarkFeedSynced(ctx, feed.ID, etag); err != nil {
		logger.Warn("CalendarSyncService:syncFeed - mark synced failed", "error", err)
	}
	return events, false, nil
}

// SyncAll fans out one sync task per syncable user
func (s *CalendarSyncService) SyncAll(ctx context.Context) error {
	userIDs, err := s.repo.GetSyncableUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list syncable users: %w", err)
	}

	for _, userID := range userIDs {
		task, err := queue.NewSyncUserTask(userID)
		if err != nil {
			return err
		}
		if _, err := s.queueClient.EnqueueContext(ctx, task); err != nil {
			return fmt.Errorf("enqueue sync for %s: %w", userID, err)
		}
	}

	logger.Info("CalendarSyncService:SyncAll", "users", len(userIDs))
	return nil
}
