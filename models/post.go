package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post model for uploaded media posts
type Post struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID    primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Caption    string             `json:"caption" bson:"caption"`
	MediaType  string             `json:"mediaType" bson:"mediaType"` // "image" or "video"
	MediaURL   string             `json:"mediaUrl" bson:"mediaUrl"`
	StoredName string             `json:"storedName" bson:"storedName"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// FeedItem is a post joined with its owner, annotated for the requesting user
type FeedItem struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId"`
	Caption    string `json:"caption"`
	MediaType  string `json:"mediaType"`
	MediaURL   string `json:"mediaUrl"`
	StoredName string `json:"storedName"`
	CreatedAt  string `json:"createdAt"`
	IsOwner    bool   `json:"isOwner"`
	OwnerEmail string `json:"ownerEmail"`
}

// FeedResponse is the payload returned by the feed endpoint
type FeedResponse struct {
	Posts []FeedItem `json:"posts"`
}

// DeletePostResponse is the payload returned after deleting a post
type DeletePostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MediaUploadResult holds what the media host reports back for a stored file
type MediaUploadResult struct {
	URL        string `json:"url"`
	StoredName string `json:"name"`
}
