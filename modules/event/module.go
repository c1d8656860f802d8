package event

import (
	"github.com/labstack/echo/v4"

	"today-scheduler/core/cache"
	"today-scheduler/core/database"
	"today-scheduler/core/middleware"
	"today-scheduler/modules/event/controller"
	"today-scheduler/modules/event/repository"
	"today-scheduler/modules/event/router"
	"today-scheduler/modules/event/service"
)

// Init initializes the event module. The auth service is injected as the
// participant directory; the calendar gateway and notification sink come from
// their own modules.
func Init(
	e *echo.Echo,
	db database.Database,
	redisCache cache.Cache,
	mw *middleware.Middleware,
	directory service.ParticipantDirectory,
	gateway service.CalendarGateway,
	sink service.NotificationSink,
) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, directory, gateway, sink, redisCache)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Setup(e, mw)

	return svc
}
