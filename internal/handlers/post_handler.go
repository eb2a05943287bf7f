package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"github.com/sajidul-dev/feedline/backend/internal/services"
	"github.com/sajidul-dev/feedline/backend/internal/storage"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
	blobStore   storage.BlobStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService, blobStore storage.BlobStore) *PostHandler {
	return &PostHandler{
		postService: postService,
		blobStore:   blobStore,
	}
}

// RegisterPublicRoutes registers the post routes that need no authentication
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts", h.ListFeed)
	g.GET("/posts/user/:username", h.ListByAuthor)
	g.GET("/posts/:id", h.GetPost)
}

// RegisterPostRoutes registers the authenticated post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.PUT("/posts/:id/like", h.ToggleLike)
}

// ListFeed returns the public feed with pagination
func (h *PostHandler) ListFeed(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	sortBy := c.QueryParam("sort_by")

	result, err := h.postService.ListFeed(c.Request().Context(), page, limit, sortBy)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListByAuthor returns one user's posts with pagination
func (h *PostHandler) ListByAuthor(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.postService.ListByAuthor(c.Request().Context(), c.Param("username"), page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post from a multipart form with a text field and
// an optional image file
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, username := currentUser(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded image")
		}
		defer src.Close()

		imageURL, err = h.blobStore.Upload(c.Request().Context(), file.Filename, file.Header.Get("Content-Type"), src)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store uploaded image")
		}
	}

	post, err := h.postService.Create(c.Request().Context(), userID, username, req.Text, imageURL)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, _ := currentUser(c)

	if err := h.postService.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// ToggleLike likes the post if the caller has not liked it yet, otherwise
// removes the like
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, username := currentUser(c)

	result, err := h.postService.ToggleLike(c.Request().Context(), c.Param("id"), userID, username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}
