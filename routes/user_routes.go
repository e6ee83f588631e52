package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/momento-app/momento_backend/controllers"
	"github.com/momento-app/momento_backend/middleware"
)

// RegisterUserRoutes sets up all user-related protected routes
func RegisterUserRoutes(e *echo.Echo, userController *controllers.UserController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware(), middleware.TokenBlacklistMiddleware())

	r.GET("/users/me", userController.GetProfile)
	r.POST("/users/profile-picture", userController.UpdateProfilePicture)
}
