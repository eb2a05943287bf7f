package repositories

import (
	"context"
	"time"

	"github.com/sajidul-dev/feedline/backend/internal/apperrors"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sort keys accepted by ListPosts.
const (
	SortByCreatedAt = "createdAt"
	SortByLikes     = "likes"
	SortByComments  = "comments"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	// ListPosts returns a page of posts. An empty authorUsername means the
	// whole feed. sortKey "likes"/"comments" orders by collection size,
	// anything else by creation time, newest first.
	ListPosts(ctx context.Context, authorUsername string, skip, limit int64, sortKey string) ([]models.Post, error)
	CountPosts(ctx context.Context, authorUsername string) (int64, error)
	// ReplacePost writes the whole document back, the commit point of every
	// read-modify-write mutation.
	ReplacePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return apperrors.Store("failed to insert post", err)
	}
	return nil
}

// GetPostByID retrieves a post by ID from MongoDB. A malformed identifier
// is reported the same way as a missing document.
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("post not found")
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Store("failed to fetch post", err)
	}
	return &post, nil
}

// ListPosts retrieves a page of posts from MongoDB
func (r *MongoPostRepository) ListPosts(ctx context.Context, authorUsername string, skip, limit int64, sortKey string) ([]models.Post, error) {
	filter := bson.M{}
	if authorUsername != "" {
		filter = bson.M{"author_username": authorUsername}
	}

	var cursor *mongo.Cursor
	var err error

	switch sortKey {
	case SortByLikes, SortByComments:
		field := "likes"
		if sortKey == SortByComments {
			field = "comments"
		}
		// Order by the size of the embedded array, then newest first.
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: filter}},
			bson.D{{Key: "$addFields", Value: bson.D{
				{Key: "sort_count", Value: bson.D{{Key: "$size", Value: bson.D{
					{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}},
				}}}},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{
				{Key: "sort_count", Value: -1},
				{Key: "created_at", Value: -1},
			}}},
			bson.D{{Key: "$skip", Value: skip}},
			bson.D{{Key: "$limit", Value: limit}},
		}
		cursor, err = r.collection.Aggregate(ctx, pipeline)
	default:
		findOptions := options.Find().
			SetSkip(skip).
			SetLimit(limit).
			SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err = r.collection.Find(ctx, filter, findOptions)
	}
	if err != nil {
		return nil, apperrors.Store("failed to list posts", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, apperrors.Store("failed to decode posts", err)
	}
	return posts, nil
}

// CountPosts counts posts, optionally restricted to one author
func (r *MongoPostRepository) CountPosts(ctx context.Context, authorUsername string) (int64, error) {
	filter := bson.M{}
	if authorUsername != "" {
		filter = bson.M{"author_username": authorUsername}
	}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperrors.Store("failed to count posts", err)
	}
	return total, nil
}

// ReplacePost writes the full post document back to MongoDB
func (r *MongoPostRepository) ReplacePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return apperrors.Store("failed to update post", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("post not found")
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("post not found")
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperrors.Store("failed to delete post", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("post not found")
	}
	return nil
}
