package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sajidul-dev/feedline/backend/internal/apperrors"
	appmw "github.com/sajidul-dev/feedline/backend/internal/middleware"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"github.com/sajidul-dev/feedline/backend/internal/services"
	"github.com/sajidul-dev/feedline/backend/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memPostRepo is a minimal in-memory PostRepository for handler tests.
type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	seq   int
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[string]*models.Post)}
}

func (m *memPostRepo) copyOf(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = append([]models.Like{}, p.Likes...)
	cp.Comments = append([]models.Comment{}, p.Comments...)
	return &cp
}

func (m *memPostRepo) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Unix(0, 0).Add(time.Duration(m.seq) * time.Second)
	post.UpdatedAt = post.CreatedAt
	m.posts[post.ID.Hex()] = m.copyOf(post)
	return nil
}

func (m *memPostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.NotFound("post not found")
	}
	post, ok := m.posts[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	return m.copyOf(post), nil
}

func (m *memPostRepo) ListPosts(_ context.Context, authorUsername string, skip, limit int64, _ string) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Post
	for _, p := range m.posts {
		if authorUsername != "" && p.AuthorUsername != authorUsername {
			continue
		}
		all = append(all, *m.copyOf(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if skip >= int64(len(all)) {
		return []models.Post{}, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memPostRepo) CountPosts(_ context.Context, authorUsername string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.posts {
		if authorUsername == "" || p.AuthorUsername == authorUsername {
			n++
		}
	}
	return n, nil
}

func (m *memPostRepo) ReplacePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID.Hex()]; !ok {
		return apperrors.NotFound("post not found")
	}
	m.posts[post.ID.Hex()] = m.copyOf(post)
	return nil
}

func (m *memPostRepo) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return apperrors.NotFound("post not found")
	}
	delete(m.posts, id)
	return nil
}

type handlerFixture struct {
	e        *echo.Echo
	repo     *memPostRepo
	posts    *PostHandler
	comments *CommentHandler
}

func newHandlerFixture() *handlerFixture {
	e := echo.New()
	e.Validator = validators.NewValidator()
	repo := newMemPostRepo()
	locks := services.NewPostLocks()
	postService := services.NewPostService(repo, locks)
	commentService := services.NewCommentService(repo, locks)
	return &handlerFixture{
		e:        e,
		repo:     repo,
		posts:    NewPostHandler(postService, nil),
		comments: NewCommentHandler(commentService),
	}
}

func (f *handlerFixture) request(method, target, body, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return f.e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID, username string) {
	c.Set(appmw.ContextUserID, userID)
	c.Set(appmw.ContextUsername, username)
}

func (f *handlerFixture) seedPost(t *testing.T, text string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:       "u1",
		AuthorUsername: "alice",
		Text:           text,
		Likes:          []models.Like{},
		Comments:       []models.Comment{},
	}
	require.NoError(t, f.repo.CreatePost(context.Background(), post))
	return post
}

func TestGetPostNotFoundStatus(t *testing.T) {
	f := newHandlerFixture()

	c, _ := f.request(http.MethodGet, "/api/v1/posts/unknown", "", "")
	c.SetParamNames("id")
	c.SetParamValues("ffffffffffffffffffffffff")

	err := f.posts.GetPost(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestListFeedResponseShape(t *testing.T) {
	f := newHandlerFixture()
	for i := 0; i < 15; i++ {
		f.seedPost(t, "post")
	}

	c, rec := f.request(http.MethodGet, "/api/v1/posts?page=2&limit=10", "", "")
	require.NoError(t, f.posts.ListFeed(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var page models.FeedPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(15), page.TotalCount)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasMore)
}

func TestCreatePostRejectsEmpty(t *testing.T) {
	f := newHandlerFixture()

	c, _ := f.request(http.MethodPost, "/api/v1/posts", `{"text":"   "}`, echo.MIMEApplicationJSON)
	authenticate(c, "u1", "alice")

	err := f.posts.CreatePost(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreatePostTextOnly(t *testing.T) {
	f := newHandlerFixture()

	c, rec := f.request(http.MethodPost, "/api/v1/posts", `{"text":"hello"}`, echo.MIMEApplicationJSON)
	authenticate(c, "u1", "alice")

	require.NoError(t, f.posts.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, "alice", post.AuthorUsername)
	assert.Equal(t, 0, post.LikesCount)
}

func TestDeletePostForbiddenStatus(t *testing.T) {
	f := newHandlerFixture()
	post := f.seedPost(t, "hello")

	c, _ := f.request(http.MethodDelete, "/api/v1/posts/x", "", "")
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	authenticate(c, "intruder", "mallory")

	err := f.posts.DeletePost(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestToggleLikeEndpoint(t *testing.T) {
	f := newHandlerFixture()
	post := f.seedPost(t, "hello")

	c, rec := f.request(http.MethodPut, "/api/v1/posts/x/like", "", "")
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	authenticate(c, "u2", "bob")

	require.NoError(t, f.posts.ToggleLike(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.LikeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.IsLiked)
	assert.Equal(t, 1, result.LikesCount)
}

func TestAddCommentEndpointValidation(t *testing.T) {
	f := newHandlerFixture()
	post := f.seedPost(t, "hello")

	c, _ := f.request(http.MethodPost, "/api/v1/posts/x/comment", `{"text":""}`, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	authenticate(c, "u2", "bob")

	err := f.comments.AddComment(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestAddCommentEndpoint(t *testing.T) {
	f := newHandlerFixture()
	post := f.seedPost(t, "hello")

	c, rec := f.request(http.MethodPost, "/api/v1/posts/x/comment", `{"text":"nice!"}`, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	authenticate(c, "u2", "bob")

	require.NoError(t, f.comments.AddComment(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var result models.CommentList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, 1, result.CommentsCount)
	assert.Equal(t, "nice!", result.Comments[0].Text)
	assert.Equal(t, "bob", result.Comments[0].AuthorUsername)
}
