package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/momento-app/momento_backend/controllers"
	"github.com/momento-app/momento_backend/middleware"
)

// RegisterPostRoutes sets up the upload, feed and delete routes. These live
// at the root path rather than under /api so clients keep short URLs.
func RegisterPostRoutes(e *echo.Echo, postController *controllers.PostController) {
	r := e.Group("")
	r.Use(middleware.JWTMiddleware(), middleware.TokenBlacklistMiddleware())

	r.POST("/upload", postController.UploadPost)
	r.GET("/feed", postController.GetFeed)
	r.DELETE("/posts/:postId", postController.DeletePost)
}
