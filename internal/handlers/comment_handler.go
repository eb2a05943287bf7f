package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"github.com/sajidul-dev/feedline/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comment", h.AddComment)
	g.DELETE("/posts/:id/comment/:comment_id", h.DeleteComment)
}

// AddComment adds a comment to a post
func (h *CommentHandler) AddComment(c echo.Context) error {
	userID, username := currentUser(c)

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.commentService.AddComment(c.Request().Context(), c.Param("id"), userID, username, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, result)
}

// DeleteComment deletes the caller's own comment from a post
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, _ := currentUser(c)

	result, err := h.commentService.DeleteComment(c.Request().Context(), c.Param("id"), c.Param("comment_id"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}
