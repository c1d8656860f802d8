package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"today-scheduler/core/cache"
	"today-scheduler/core/constants"
	"today-scheduler/core/controller"
	"today-scheduler/core/errors"
	"today-scheduler/core/params"
	"today-scheduler/core/utils"
	"today-scheduler/modules/notification/dto"
	"today-scheduler/modules/notification/service"
)

type NotificationController struct {
	service service.NotificationServiceInterface
	cache   cache.Cache
	controller.BaseController
}

func NewNotificationController(svc service.NotificationServiceInterface, c cache.Cache) *NotificationController {
	return &NotificationController{
		service:        svc,
		cache:          c,
		BaseController: controller.NewBaseController(),
	}
}

func (c *NotificationController) claims(ctx echo.Context) (*utils.TokenClaims, *echo.HTTPError) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, c.Unauthorized(errors.ErrUnauthorized, "Missing authentication context")
	}
	return claims, nil
}

// GetMyNotifications handles GET /notifications
// @Summary List notifications
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} entity.PaginatedNotificationEntity
// @Failure 401 {object} errors.AppError
// @Router /private/notifications [get]
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	claims, httpErr := c.claims(ctx)
	if httpErr != nil {
		return httpErr
	}

	queryParams := params.Bind(ctx)
	result, err := c.service.GetMyNotifications(ctx.Request().Context(), claims.UserID, queryParams)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to get notifications")
	}

	return c.SuccessResponse(ctx, result, "Notifications retrieved successfully")
}

// CountUnread handles GET /notifications/unread-count
// @Summary Count unread notifications
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UnreadCountResponse
// @Router /private/notifications/unread-count [get]
func (c *NotificationController) CountUnread(ctx echo.Context) error {
	claims, httpErr := c.claims(ctx)
	if httpErr != nil {
		return httpErr
	}

	count, err := c.service.CountUnread(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to count unread notifications")
	}

	return c.SuccessResponse(ctx, dto.UnreadCountResponse{Count: count}, "Unread count retrieved")
}

// MarkAsRead handles PUT /notifications/mark-read
// @Summary Mark notifications as read
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkReadRequest true "Notification IDs"
// @Success 200 {object} map[string]string
// @Router /private/notifications/mark-read [put]
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	claims, httpErr := c.claims(ctx)
	if httpErr != nil {
		return httpErr
	}

	req := new(dto.MarkReadRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if err := c.service.MarkAsRead(ctx.Request().Context(), claims.UserID, req.IDs); err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to mark as read")
	}

	return c.SuccessResponse(ctx, nil, "Marked as read successfully")
}

// MarkAllAsRead handles PUT /notifications/mark-all-read
// @Summary Mark all notifications as read
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /private/notifications/mark-all-read [put]
func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	claims, httpErr := c.claims(ctx)
	if httpErr != nil {
		return httpErr
	}

	if err := c.service.MarkAllAsRead(ctx.Request().Context(), claims.UserID); err != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to mark all as read")
	}

	return c.SuccessResponse(ctx, nil, "Marked all as read successfully")
}

// Stream handles GET /notifications/stream. Server-sent events backed by the
// user's redis channel; the connection stays open until the client goes away.
// @Summary Live notification stream
// @Tags Notification
// @Security BearerAuth
// @Produce text/event-stream
// @Router /private/notifications/stream [get]
func (c *NotificationController) Stream(ctx echo.Context) error {
	claims, httpErr := c.claims(ctx)
	if httpErr != nil {
		return httpErr
	}

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	reqCtx := ctx.Request().Context()
	sub := c.cache.Subscribe(reqCtx, service.StreamChannel(claims.UserID))
	defer sub.Close()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case msg, ok := <-sub.Channel():
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg.Payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
