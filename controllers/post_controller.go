// controllers/post_controller.go
package controllers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/momento-app/momento_backend/middleware"
	"github.com/momento-app/momento_backend/models"
	"github.com/momento-app/momento_backend/repositories"
)

// PostController handles media uploads, the feed, and post deletion
type PostController struct {
	posts  PostStore
	users  UserStore
	media  MediaStore
	logger *log.Logger
}

func NewPostController(posts PostStore, users UserStore, media MediaStore) *PostController {
	return &PostController{
		posts:  posts,
		users:  users,
		media:  media,
		logger: log.New(os.Stdout, "[POSTS] ", log.LstdFlags),
	}
}

// UploadPost receives a multipart file, stores it on the media host, and
// persists the post. The post is only written after the host confirms the
// upload; the scratch copy is removed on every exit path.
func (pc *PostController) UploadPost(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	if !pc.media.IsConfigured() {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Media storage is not configured",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "File is required",
		})
	}
	caption := c.FormValue("caption")

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	// Scratch copy keeps the client-supplied extension
	scratchPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	dst, err := os.Create(scratchPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to stage uploaded file",
		})
	}
	defer os.Remove(scratchPath)

	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to stage uploaded file",
		})
	}

	fileData, err := os.ReadFile(scratchPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to stage uploaded file",
		})
	}

	result, err := pc.media.Upload(fileData, fileHeader.Filename)
	if err != nil {
		pc.logger.Printf("Media upload failed for user %s: %v", claims.UserID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("Failed to upload media: %v", err),
		})
	}

	post := models.Post{
		OwnerID:    ownerID,
		Caption:    caption,
		MediaType:  classifyMediaType(fileHeader.Header.Get("Content-Type")),
		MediaURL:   result.URL,
		StoredName: result.StoredName,
		CreatedAt:  time.Now(),
	}

	created, err := pc.posts.Create(c.Request().Context(), post)
	if err != nil {
		pc.logger.Printf("Failed to persist post for user %s: %v", claims.UserID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save post",
		})
	}

	return c.JSON(http.StatusOK, created)
}

// GetFeed returns every post newest-first, joined with owner emails and
// annotated with whether the caller owns each post
func (pc *PostController) GetFeed(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()

	posts, err := pc.posts.FindAll(ctx)
	if err != nil {
		pc.logger.Printf("Failed to load posts: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load feed",
		})
	}

	users, err := pc.users.FindAll(ctx)
	if err != nil {
		pc.logger.Printf("Failed to load users: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load feed",
		})
	}

	emailByID := make(map[primitive.ObjectID]string, len(users))
	for _, user := range users {
		emailByID[user.ID] = user.Email
	}

	items := make([]models.FeedItem, 0, len(posts))
	for _, post := range posts {
		ownerEmail, ok := emailByID[post.OwnerID]
		if !ok {
			ownerEmail = "N/A"
		}

		items = append(items, models.FeedItem{
			ID:         post.ID.Hex(),
			OwnerID:    post.OwnerID.Hex(),
			Caption:    post.Caption,
			MediaType:  post.MediaType,
			MediaURL:   post.MediaURL,
			StoredName: post.StoredName,
			CreatedAt:  post.CreatedAt.Format(time.RFC3339),
			IsOwner:    post.OwnerID.Hex() == claims.UserID,
			OwnerEmail: ownerEmail,
		})
	}

	return c.JSON(http.StatusOK, models.FeedResponse{Posts: items})
}

// DeletePost removes a post. Ownership is the only authorization rule.
func (pc *PostController) DeletePost(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid post ID",
		})
	}

	ctx := c.Request().Context()

	post, err := pc.posts.FindByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Post not found",
			})
		}
		pc.logger.Printf("Failed to look up post %s: %v", postID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete post",
		})
	}

	if post.OwnerID.Hex() != claims.UserID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only delete your own posts",
		})
	}

	if err := pc.posts.Delete(ctx, postID); err != nil {
		if err == repositories.ErrPostNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Post not found",
			})
		}
		pc.logger.Printf("Failed to delete post %s: %v", postID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete post",
		})
	}

	return c.JSON(http.StatusOK, models.DeletePostResponse{
		Success: true,
		Message: "Post deleted successfully",
	})
}

// classifyMediaType maps a declared content type to the stored media type.
// Anything that does not announce itself as video counts as an image.
func classifyMediaType(contentType string) string {
	if strings.HasPrefix(contentType, "video") {
		return "video"
	}
	return "image"
}
