package router

import (
	"github.com/labstack/echo/v4"

	"today-scheduler/modules/auth/controller"
)

// AuthRouter handles auth routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	publicRoutes := v1.Group("/public")

	authRoutes := publicRoutes.Group("/auth")
	authRoutes.POST("/signin", r.AuthController.Signin)
}
