package controller

import (
	"github.com/labstack/echo/v4"

	"today-scheduler/core/controller"
	"today-scheduler/core/errors"
	"today-scheduler/modules/auth/dto"
	"today-scheduler/modules/auth/service"
)

// AuthController handles signin HTTP requests
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// Signin handles POST /auth/signin
// @Summary Sign in with telegram identity
// @Description Upserts the user and returns a JWT for the private API
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SigninRequest true "Telegram identity and OAuth tokens"
// @Success 200 {object} dto.SigninResponse
// @Failure 400 {object} errors.AppError
// @Router /public/auth/signin [post]
func (c *AuthController) Signin(ctx echo.Context) error {
	var req dto.SigninRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.Signin(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Signed in successfully")
}
