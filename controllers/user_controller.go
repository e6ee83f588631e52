// controllers/user_controller.go
package controllers

import (
	"bytes"
	"image/jpeg"
	"log"
	"net/http"
	"os"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/momento-app/momento_backend/models"
	"github.com/momento-app/momento_backend/repositories"
	"github.com/momento-app/momento_backend/utils"
)

const (
	avatarMaxWidth    = 256
	avatarJPEGQuality = 85
)

// UserController handles user profile endpoints
type UserController struct {
	users  UserStore
	media  MediaStore
	logger *log.Logger
}

// NewUserController creates a new user controller
func NewUserController(users UserStore, media MediaStore) *UserController {
	return &UserController{
		users:  users,
		media:  media,
		logger: log.New(os.Stdout, "[USERS] ", log.LstdFlags),
	}
}

// GetProfile returns the authenticated user's profile
func (uc *UserController) GetProfile(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or missing token",
		})
	}

	user, err := uc.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		uc.logger.Printf("Failed to fetch user %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data: map[string]interface{}{
			"id":         user.ID.Hex(),
			"email":      user.Email,
			"fullName":   user.FullName,
			"profilePic": user.ProfilePic,
			"isActive":   user.IsActive,
			"createdAt":  user.CreatedAt,
		},
	})
}

// UpdateProfilePicture accepts an avatar image, normalizes it and stores it
// on the media host. Avatars are resized down to a fixed width and re-encoded
// as JPEG before upload.
func (uc *UserController) UpdateProfilePicture(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or missing token",
		})
	}

	if !uc.media.IsConfigured() {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Media storage is not configured",
		})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Avatar file is required",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to open uploaded file",
		})
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Uploaded file is not a valid image",
		})
	}

	if img.Bounds().Dx() > avatarMaxWidth {
		img = imaging.Resize(img, avatarMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: avatarJPEGQuality}); err != nil {
		uc.logger.Printf("Failed to encode avatar for user %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process avatar",
		})
	}

	storedName := "avatar-" + uuid.New().String() + ".jpg"
	result, err := uc.media.Upload(buf.Bytes(), storedName)
	if err != nil {
		uc.logger.Printf("Avatar upload failed for user %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to upload avatar",
		})
	}

	if err := uc.users.UpdateProfilePicture(c.Request().Context(), userID, result.URL); err != nil {
		uc.logger.Printf("Failed to save avatar URL for user %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save avatar",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile picture updated successfully",
		Data: map[string]interface{}{
			"profilePic": result.URL,
		},
	})
}
