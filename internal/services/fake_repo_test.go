package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sajidul-dev/feedline/backend/internal/apperrors"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"github.com/sajidul-dev/feedline/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePostRepo is an in-memory PostRepository. Creation timestamps are
// strictly increasing so ordering assertions are deterministic.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	seq   int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = append([]models.Like{}, p.Likes...)
	cp.Comments = append([]models.Comment{}, p.Comments...)
	return &cp
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Unix(0, 0).Add(time.Duration(f.seq) * time.Second)
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID.Hex()] = clonePost(post)
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.NotFound("post not found")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	return clonePost(post), nil
}

func (f *fakePostRepo) ListPosts(_ context.Context, authorUsername string, skip, limit int64, sortKey string) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []models.Post
	for _, p := range f.posts {
		if authorUsername != "" && p.AuthorUsername != authorUsername {
			continue
		}
		all = append(all, *clonePost(p))
	}

	sort.Slice(all, func(i, j int) bool {
		switch sortKey {
		case repositories.SortByLikes:
			if len(all[i].Likes) != len(all[j].Likes) {
				return len(all[i].Likes) > len(all[j].Likes)
			}
		case repositories.SortByComments:
			if len(all[i].Comments) != len(all[j].Comments) {
				return len(all[i].Comments) > len(all[j].Comments)
			}
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if skip >= int64(len(all)) {
		return []models.Post{}, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakePostRepo) CountPosts(_ context.Context, authorUsername string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if authorUsername == "" {
		return int64(len(f.posts)), nil
	}
	var n int64
	for _, p := range f.posts {
		if p.AuthorUsername == authorUsername {
			n++
		}
	}
	return n, nil
}

func (f *fakePostRepo) ReplacePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[post.ID.Hex()]; !ok {
		return apperrors.NotFound("post not found")
	}
	post.UpdatedAt = time.Now()
	f.posts[post.ID.Hex()] = clonePost(post)
	return nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperrors.NotFound("post not found")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return apperrors.NotFound("post not found")
	}
	delete(f.posts, id)
	return nil
}
