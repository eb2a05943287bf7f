package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like records that a user liked a post. The username is captured at like
// time and is not updated if the user later renames.
type Like struct {
	UserID   string `json:"user_id" bson:"user_id"`
	Username string `json:"username" bson:"username"`
}

// Comment is embedded in its parent post and has no independent lifecycle.
type Comment struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	AuthorID       string             `json:"author_id" bson:"author_id"`
	AuthorUsername string             `json:"author_username" bson:"author_username"`
	Text           string             `json:"text" bson:"text"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// Post is the root aggregate stored in MongoDB. Likes and comments are
// embedded arrays persisted with the post as a single document.
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID       string             `json:"author_id" bson:"author_id"`
	AuthorUsername string             `json:"author_username" bson:"author_username"`
	Text           string             `json:"text" bson:"text"`
	ImageURL       string             `json:"image_url" bson:"image_url"`
	Likes          []Like             `json:"likes" bson:"likes"`
	Comments       []Comment          `json:"comments" bson:"comments"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`

	// Derived from the embedded arrays on read, never stored.
	LikesCount    int `json:"likes_count" bson:"-"`
	CommentsCount int `json:"comments_count" bson:"-"`
}

// DeriveCounts fills the counts from the live collections.
func (p *Post) DeriveCounts() {
	p.LikesCount = len(p.Likes)
	p.CommentsCount = len(p.Comments)
}

// LikeIndex returns the position of userID in the likes array, or -1.
func (p *Post) LikeIndex(userID string) int {
	for i, l := range p.Likes {
		if l.UserID == userID {
			return i
		}
	}
	return -1
}

// CreatePostRequest defines the request body for creating a new post.
// Either text or an uploaded image is required; that invariant is checked
// by the service after trimming, not by struct tags.
type CreatePostRequest struct {
	Text string `json:"text" form:"text" validate:"omitempty,max=1000"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

// FeedPage is one page of posts plus the pagination bookkeeping.
type FeedPage struct {
	Items       []Post `json:"posts"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	TotalCount  int64  `json:"total_posts"`
	HasMore     bool   `json:"has_more"`
}

// LikeResult is the post's like state after a toggle.
type LikeResult struct {
	Likes      []Like `json:"likes"`
	LikesCount int    `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
}

// CommentList is the post's comment state after an add or delete.
type CommentList struct {
	Comments      []Comment `json:"comments"`
	CommentsCount int       `json:"comments_count"`
}
