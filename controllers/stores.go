package controllers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/momento-app/momento_backend/models"
)

// MediaStore is the boundary to the external media host. Wrapping the host
// behind this interface keeps the CDN client swappable and mockable.
type MediaStore interface {
	IsConfigured() bool
	Upload(fileData []byte, fileName string) (*models.MediaUploadResult, error)
}

// PostStore is the persistence boundary for posts
type PostStore interface {
	Create(ctx context.Context, post models.Post) (models.Post, error)
	FindAll(ctx context.Context) ([]models.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore is the persistence boundary for users
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M, unset bson.M) error
	UpdateProfilePicture(ctx context.Context, id primitive.ObjectID, profileURL string) error
}
