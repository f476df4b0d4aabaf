package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes expects the group to carry AuthMiddleware already: every
// user-management route requires a token, and the self-service path piggybacks
// on the ":username" parameter being the literal "me".
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:username/", h.Get)
	rg.PATCH("/:username/", h.Update)
	rg.PUT("/:username/", methodNotAllowed)
	rg.DELETE("/:username/", h.Delete)
}

// requireAdmin applies the user-management policy inside the handler, since
// the "me" routes share the path shape with the admin ones.
func requireAdmin(c *gin.Context) bool {
	_, role, authenticated := middleware.Identity(c)
	if !policy.AdminOnly(authenticated, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return false
	}
	return true
}

// List returns users, optionally filtered by a username substring.
// GET /v1/users/?search=
func (h *UserHandler) List(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	page, pageSize := pagination(c)
	users, err := h.userService.List(c.Query("search"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create adds a user with an explicit role.
// POST /v1/users/
func (h *UserHandler) Create(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(req)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.UserFromModel(user))
}

// Get serves both /users/{username}/ (admin) and /users/me/ (self).
func (h *UserHandler) Get(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		h.getSelf(c)
		return
	}
	if !requireAdmin(c) {
		return
	}

	user, err := h.userService.GetByUsername(username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(user))
}

// Update serves both the admin PATCH and the self-service PATCH; the latter
// silently ignores any submitted role.
func (h *UserHandler) Update(c *gin.Context) {
	username := c.Param("username")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if username == "me" {
		userID, _, _ := middleware.Identity(c)
		user, err := h.userService.UpdateSelf(userID, req)
		if err != nil {
			h.writeUpdateError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.UserFromModel(user))
		return
	}

	if !requireAdmin(c) {
		return
	}

	user, err := h.userService.UpdateByUsername(username, req)
	if err != nil {
		h.writeUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(user))
}

// Delete removes a user. The self-service endpoint has no delete.
// DELETE /v1/users/{username}/
func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		methodNotAllowed(c)
		return
	}
	if !requireAdmin(c) {
		return
	}

	if err := h.userService.DeleteByUsername(username); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) getSelf(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	user, err := h.userService.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(user))
}

func (h *UserHandler) writeUpdateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isValidationErr(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrInvalidUsername) ||
		errors.Is(err, service.ErrUsernameTaken) ||
		errors.Is(err, service.ErrEmailTaken)
}
