package controller

import (
	"github.com/labstack/echo/v4"

	"today-scheduler/core/constants"
	"today-scheduler/core/controller"
	"today-scheduler/core/errors"
	"today-scheduler/core/utils"
	"today-scheduler/modules/event/dto"
	"today-scheduler/modules/event/service"
)

// EventController handles event lifecycle HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func (c *EventController) claims(ctx echo.Context) (*utils.TokenClaims, *echo.HTTPError) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, c.Unauthorized(errors.ErrUnauthorized, "Missing authentication context")
	}
	return claims, nil
}

// CreateEvent handles POST /events
// @Summary Propose a meeting
// @Description Creates an event from a free-text description; invitees are the @mentions
// @Tags Events
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event description"
// @Success 200 {object} dto.CreateEventResponse
// @Failure 400 {object} errors.AppError
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	claims, httpErr := c.claims(ctx)
	if httpErr != nil {
		return httpErr
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.Description == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Description is required")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// Accept handles POST /events/:id/accept
// @Summary Accept an event invitation
// @Description Records acceptance and returns the mutual free slots
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.AcceptResponse
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Failure 502 {object} errors.AppError
// @Router /private/events/{id}/accept [post]
func (c *EventController) Accept(ctx echo.Context) error {
	claims, httpErr := c.claims(ctx)
	if httpErr != nil {
		return httpErr
	}

	eventID := ctx.Param("id")
	if eventID == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Event id is required")
	}

	result, appErr := c.EventService.Accept(ctx.Request().Context(), eventID, claims.TelegramID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event accepted")
}

// GetEvent handles GET /events/:id
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	if _, httpErr := c.claims(ctx); httpErr != nil {
		return httpErr
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event retrieved")
}

// GetMyEvents handles GET /events
// @Summary List events the caller is invited to
// @Tags Events
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /private/events [get]
func (c *EventController) GetMyEvents(ctx echo.Context) error {
	claims, httpErr := c.claims(ctx)
	if httpErr != nil {
		return httpErr
	}

	result, appErr := c.EventService.GetMyEvents(ctx.Request().Context(), claims.TelegramID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Events retrieved")
}

// GetShareLink handles GET /events/:id/share-link
// @Summary Get the shareable URL for an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.ShareLinkResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id}/share-link [get]
func (c *EventController) GetShareLink(ctx echo.Context) error {
	if _, httpErr := c.claims(ctx); httpErr != nil {
		return httpErr
	}

	result, appErr := c.EventService.GetShareLink(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Share link generated")
}
