package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/momento-app/momento_backend/controllers"
	"github.com/momento-app/momento_backend/middleware"
)

// RegisterAuthRoutes sets up all authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, passwordController *controllers.PasswordController) {
	// Public authentication routes
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/forget-password", passwordController.ForgetPassword)
	e.POST("/api/auth/verify-otp", passwordController.VerifyOTP)
	e.POST("/api/auth/reset-password", passwordController.ResetPassword)

	// Authenticated session routes
	r := e.Group("/api/auth")
	r.Use(middleware.JWTMiddleware(), middleware.TokenBlacklistMiddleware())
	r.POST("/logout", authController.Logout)
	r.GET("/validate-token", authController.ValidateToken)
}
