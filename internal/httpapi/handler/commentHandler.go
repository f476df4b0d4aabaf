package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes nests comments two levels deep, under a title's review.
func (h *CommentHandler) RegisterRoutes(titles *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	comments := titles.Group("/:title_id/reviews/:review_id/comments")
	{
		comments.GET("/", h.List)
		comments.POST("/", requireAuth, h.Create)
		comments.GET("/:comment_id/", h.Get)
		comments.PATCH("/:comment_id/", requireAuth, h.Update)
		comments.DELETE("/:comment_id/", requireAuth, h.Delete)
	}
}

// GET /v1/titles/{title_id}/reviews/{review_id}/comments/
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := h.parentIDs(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := pagination(c)
	comments, err := h.svc.ListByReview(ctx, titleID, reviewID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comments)
}

// POST /v1/titles/{title_id}/reviews/{review_id}/comments/
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := h.parentIDs(c)
	if !ok {
		return
	}

	userID, _, authenticated := middleware.Identity(c)
	if !authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var in dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.svc.Create(ctx, userID, titleID, reviewID, in)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GET /v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}/
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := h.parentIDs(c)
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.svc.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) || errors.Is(err, service.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(comment))
}

// PATCH /v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}/
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := h.parentIDs(c)
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	var in dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.svc.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) || errors.Is(err, service.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !h.allowObject(c, comment.AuthorID) {
		return
	}

	updated, err := h.svc.Update(ctx, titleID, reviewID, commentID, in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}/
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := h.parentIDs(c)
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.svc.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) || errors.Is(err, service.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !h.allowObject(c, comment.AuthorID) {
		return
	}

	if err := h.svc.Delete(ctx, titleID, reviewID, commentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) parentIDs(c *gin.Context) (titleID, reviewID int64, ok bool) {
	titleID, ok = parseID(c, "title_id")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok = parseID(c, "review_id")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

func (h *CommentHandler) allowObject(c *gin.Context, ownerID int64) bool {
	userID, role, _ := middleware.Identity(c)
	if !policy.CanModifyObject(role, userID, ownerID, c.Request.Method) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you may only edit your own comments"})
		return false
	}
	return true
}
