package controller

import (
	"groupcal/core/constants"
	"groupcal/core/controller"
	"groupcal/core/errors"
	"groupcal/core/utils"
	"groupcal/modules/calendarsync/dto"
	"groupcal/modules/calendarsync/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CalendarSyncController handles calendar sync HTTP requests
type CalendarSyncController struct {
	controller.BaseController
	CalendarSyncService service.CalendarSyncServiceInterface
}

// NewCalendarSyncController creates a new controller
func NewCalendarSyncController(svc service.CalendarSyncServiceInterface) *CalendarSyncController {
	return &CalendarSyncController{
		BaseController:      controller.NewBaseController(),
		CalendarSyncService: svc,
	}
}

func (c *CalendarSyncController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token data", nil)
	}

	return claims.UserID, nil
}

// GoogleLogin handles GET /calendar/google/login
// @Summary Start the Google Calendar consent flow
// @Tags CalendarSync
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.OAuthURLResponse
// @Failure 401 {object} errors.AppError
// @Router /private/calendar/google/login [get]
func (c *CalendarSyncController) GoogleLogin(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.CalendarSyncService.GoogleLoginURL(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GoogleCallback handles GET /calendar/google/callback
// @Summary Complete the Google Calendar consent flow
// @Tags CalendarSync
// @Produce json
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.ConnectionResponse
// @Failure 400 {object} errors.AppError
// @Router /public/calendar/google/callback [get]
func (c *CalendarSyncController) GoogleCallback(ctx echo.Context) error {
	state := ctx.QueryParam("state")
	code := ctx.QueryParam("code")

	result, appErr := c.CalendarSyncService.HandleGoogleCallback(ctx.Request().Context(), state, code)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Calendar connected")
}

// GetConnections handles GET /calendar/connections
// @Summary List my calendar connections
// @Tags CalendarSync
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ConnectionListResponse
// @Router /private/calendar/connections [get]
func (c *CalendarSyncController) GetConnections(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.CalendarSyncService.GetConnections(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Disconnect handles DELETE /calendar/connections/:provider
// @Summary Disconnect a calendar provider
// @Tags CalendarSync
// @Security BearerAuth
// @Produce json
// @Param provider path string true "Provider name"
// @Success 200 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Router /private/calendar/connections/{provider} [delete]
func (c *CalendarSyncController) Disconnect(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	if appErr := c.CalendarSyncService.Disconnect(ctx.Request().Context(), userID, ctx.Param("provider")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Calendar disconnected")
}

// AddFeed handles POST /calendar/feeds
// @Summary Subscribe to an ICS feed
// @Tags CalendarSync
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddFeedRequest true "Feed details"
// @Success 200 {object} dto.FeedResponse
// @Failure 400 {object} errors.AppError
// @Router /private/calendar/feeds [post]
func (c *CalendarSyncController) AddFeed(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.AddFeedRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.CalendarSyncService.AddFeed(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Feed added")
}

// ListFeeds handles GET /calendar/feeds
// @Summary List my ICS feed subscriptions
// @Tags CalendarSync
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.FeedListResponse
// @Router /private/calendar/feeds [get]
func (c *CalendarSyncController) ListFeeds(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.CalendarSyncService.ListFeeds(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteFeed handles DELETE /calendar/feeds/:id
// @Summary Unsubscribe from an ICS feed
// @Tags CalendarSync
// @Security BearerAuth
// @Produce json
// @Param id path string true "Feed ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Router /private/calendar/feeds/{id} [delete]
func (c *CalendarSyncController) DeleteFeed(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	feedID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid feed id")
	}

	if appErr := c.CalendarSyncService.DeleteFeed(ctx.Request().Context(), feedID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Feed removed")
}

// TriggerSync handles POST /calendar/sync
// @Summary Queue an immediate sync of my external calendars
// @Tags CalendarSync
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SyncQueuedResponse
// @Router /private/calendar/sync [post]
func (c *CalendarSyncController) TriggerSync(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.CalendarSyncService.TriggerSync(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Sync queued")
}
