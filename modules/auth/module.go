package auth

import (
	"github.com/labstack/echo/v4"

	"today-scheduler/core/database"
	"today-scheduler/modules/auth/controller"
	"today-scheduler/modules/auth/repository"
	"today-scheduler/modules/auth/router"
	"today-scheduler/modules/auth/service"
)

// Init initializes the auth module and returns its service for use by other
// modules (participant lookup, calendar token upkeep).
func Init(e *echo.Echo, db database.Database) service.AuthServiceInterface {
	repo := repository.NewUserRepository(db)
	svc := service.NewAuthService(repo)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Setup(e)

	return svc
}
