package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/momento-app/momento_backend/controllers"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, authController *controllers.AuthController, passwordController *controllers.PasswordController, postController *controllers.PostController, userController *controllers.UserController) {
	RegisterAuthRoutes(e, authController, passwordController)
	RegisterPostRoutes(e, postController)
	RegisterUserRoutes(e, userController)
}
