package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sajidul-dev/feedline/backend/internal/apperrors"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"github.com/sajidul-dev/feedline/backend/internal/repositories"
)

const (
	// DefaultPageSize is used when the caller passes a non-positive page size.
	DefaultPageSize = 10

	maxPostTextLen = 1000
)

// PostService implements the business logic around the Post aggregate:
// creation, listing, deletion and likes.
type PostService struct {
	posts repositories.PostRepository
	locks *PostLocks
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, locks *PostLocks) *PostService {
	return &PostService{posts: posts, locks: locks}
}

// ListFeed returns one page of the public feed. sortKey "likes" and
// "comments" order by the size of the respective embedded collection,
// newest first as a tiebreaker; anything else orders by creation time.
func (s *PostService) ListFeed(ctx context.Context, page, pageSize int, sortKey string) (*models.FeedPage, error) {
	return s.listPage(ctx, "", page, pageSize, sortKey)
}

// ListByAuthor returns one page of posts whose author username matches exactly.
func (s *PostService) ListByAuthor(ctx context.Context, username string, page, pageSize int) (*models.FeedPage, error) {
	return s.listPage(ctx, username, page, pageSize, repositories.SortByCreatedAt)
}

func (s *PostService) listPage(ctx context.Context, authorUsername string, page, pageSize int, sortKey string) (*models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	skip := int64(page-1) * int64(pageSize)

	posts, err := s.posts.ListPosts(ctx, authorUsername, skip, int64(pageSize), sortKey)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountPosts(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []models.Post{}
	}
	for i := range posts {
		posts[i].DeriveCounts()
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &models.FeedPage{
		Items:       posts,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasMore:     int64(page)*int64(pageSize) < total,
	}, nil
}

// GetByID retrieves a single post
func (s *PostService) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.DeriveCounts()
	return post, nil
}

// Create validates and persists a new post. A post must carry text, an
// image, or both; whitespace-only text counts as empty.
func (s *PostService) Create(ctx context.Context, authorID, authorUsername, text, imageURL string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	imageURL = strings.TrimSpace(imageURL)

	if text == "" && imageURL == "" {
		return nil, apperrors.Validation("post must have either text or an image")
	}
	if utf8.RuneCountInString(text) > maxPostTextLen {
		return nil, apperrors.Validation("post text cannot exceed 1000 characters")
	}

	post := &models.Post{
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		Text:           text,
		ImageURL:       imageURL,
		Likes:          []models.Like{},
		Comments:       []models.Comment{},
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	post.DeriveCounts()
	return post, nil
}

// Delete removes a post and its embedded comments and likes. Only the
// author may delete.
func (s *PostService) Delete(ctx context.Context, postID, requesterID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return apperrors.Forbidden("not authorized to delete this post")
	}
	return s.posts.DeletePost(ctx, postID)
}

// ToggleLike adds the user's like if absent, removes it if present, and
// returns the resulting like state. The per-post lock keeps repeated
// toggles from the same user alternating instead of duplicating.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID, username string) (*models.LikeResult, error) {
	mu := s.locks.Get(postID)
	mu.Lock()
	defer mu.Unlock()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := post.LikeIndex(userID)
	if idx > -1 {
		post.Likes = append(post.Likes[:idx], post.Likes[idx+1:]...)
	} else {
		post.Likes = append(post.Likes, models.Like{UserID: userID, Username: username})
	}

	if err := s.posts.ReplacePost(ctx, post); err != nil {
		return nil, err
	}

	return &models.LikeResult{
		Likes:      post.Likes,
		LikesCount: len(post.Likes),
		IsLiked:    idx == -1,
	}, nil
}
