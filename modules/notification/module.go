package notification

import (
	"github.com/labstack/echo/v4"

	"today-scheduler/core/cache"
	"today-scheduler/core/database"
	"today-scheduler/core/middleware"
	"today-scheduler/core/queue"
	"today-scheduler/modules/notification/controller"
	"today-scheduler/modules/notification/repository"
	"today-scheduler/modules/notification/router"
	"today-scheduler/modules/notification/service"
)

// Init wires the notification HTTP surface and returns the pieces other
// modules and the worker need: the queue-backed sink for the event module and
// the service for the background fan-out.
func Init(e *echo.Echo, db database.Database, redisCache cache.Cache, q queue.Queue, mw *middleware.Middleware) (*service.QueueSink, service.NotificationServiceInterface) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc, redisCache)

	router.NewNotificationRouter(ctrl).Setup(e, mw)

	return service.NewQueueSink(q), svc
}
