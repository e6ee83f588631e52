package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/momento-app/momento_backend/config"
	"github.com/momento-app/momento_backend/models"
)

// ErrPostNotFound is returned when no post matches the requested id
var ErrPostNotFound = errors.New("post not found")

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Client) *PostRepository {
	return &PostRepository{
		collection: config.GetCollection(db, "posts"),
	}
}

// Create inserts a new post and returns it with the assigned id
func (r *PostRepository) Create(ctx context.Context, post models.Post) (models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return models.Post{}, err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid
	}

	return post, nil
}

// FindAll returns every post, newest first. Ties on createdAt are broken by
// _id so the ordering is stable within a single query.
func (r *PostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// FindByID looks up a single post
func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return &post, nil
}

// Delete removes a post by id
func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}
