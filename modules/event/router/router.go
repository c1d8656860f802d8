package router

import (
	"github.com/labstack/echo/v4"

	"today-scheduler/core/middleware"
	"today-scheduler/modules/event/controller"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

// Setup registers event routes
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private", mw.AuthMiddleware())

	eventRoutes := privateRoutes.Group("/events")
	eventRoutes.POST("", r.EventController.CreateEvent)
	eventRoutes.GET("", r.EventController.GetMyEvents)
	eventRoutes.GET("/:id", r.EventController.GetEvent)
	eventRoutes.POST("/:id/accept", r.EventController.Accept)
	eventRoutes.GET("/:id/share-link", r.EventController.GetShareLink)
}
