package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sajidul-dev/feedline/backend/internal/apperrors"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"github.com/sajidul-dev/feedline/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxCommentTextLen = 500

// CommentService manages the comment collection embedded in a post.
type CommentService struct {
	posts repositories.PostRepository
	locks *PostLocks
}

// NewCommentService creates a new CommentService. It shares the post locks
// with PostService because both mutate the same documents.
func NewCommentService(posts repositories.PostRepository, locks *PostLocks) *CommentService {
	return &CommentService{posts: posts, locks: locks}
}

// AddComment prepends a new comment to the post, newest first.
func (s *CommentService) AddComment(ctx context.Context, postID, userID, username, text string) (*models.CommentList, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentTextLen {
		return nil, apperrors.Validation("comment cannot exceed 500 characters")
	}

	mu := s.locks.Get(postID)
	mu.Lock()
	defer mu.Unlock()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:             primitive.NewObjectID(),
		AuthorID:       userID,
		AuthorUsername: username,
		Text:           text,
		CreatedAt:      time.Now(),
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)

	if err := s.posts.ReplacePost(ctx, post); err != nil {
		return nil, err
	}

	return &models.CommentList{
		Comments:      post.Comments,
		CommentsCount: len(post.Comments),
	}, nil
}

// DeleteComment removes exactly one comment. Only the comment's author may
// delete it.
func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID, requesterID string) (*models.CommentList, error) {
	mu := s.locks.Get(postID)
	mu.Lock()
	defer mu.Unlock()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range post.Comments {
		if c.ID.Hex() == commentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.NotFound("comment not found")
	}
	if post.Comments[idx].AuthorID != requesterID {
		return nil, apperrors.Forbidden("not authorized to delete this comment")
	}

	post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)

	if err := s.posts.ReplacePost(ctx, post); err != nil {
		return nil, err
	}

	return &models.CommentList{
		Comments:      post.Comments,
		CommentsCount: len(post.Comments),
	}, nil
}
