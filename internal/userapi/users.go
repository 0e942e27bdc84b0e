package userapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest represents the request body for creating a user.
// The username may be empty; uniqueness is enforced by the store.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// UpdateUserRequest carries the optional fields of a partial user update.
type UpdateUserRequest struct {
	Username *string `json:"username"`
}

// GetUsers handles GET /users
// With a user_id query parameter it returns that user; without one it lists all.
func (h *Handler) GetUsers(c *gin.Context) {
	if _, ok := c.GetQuery("user_id"); ok {
		userID, ok := queryInt(c, "user_id")
		if !ok {
			return
		}

		user, err := h.store.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			slog.Error("Failed to fetch user", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found", "user_id": userID})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}

	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("Failed to fetch users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// CreateUser handles POST /users
// There is no uniqueness pre-check; a duplicate username surfaces as the
// unique-index violation and maps to 409.
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid CreateUser payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists", "username": req.Username})
			return
		}
		slog.Error("Failed to create user", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("User created", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /users
// Applies only the fields supplied in the body.
func (h *Handler) UpdateUser(c *gin.Context) {
	userID, ok := queryInt(c, "user_id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid UpdateUser payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}

	user, err := h.store.UpdateUser(c.Request.Context(), userID, fields)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		}
		slog.Error("Failed to update user", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found", "user_id": userID})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := queryInt(c, "user_id")
	if !ok {
		return
	}

	found, err := h.store.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to delete user", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found", "user_id": userID})
		return
	}

	slog.Info("User deleted", "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
