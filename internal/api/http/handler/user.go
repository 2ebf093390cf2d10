package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtkeeper/debtkeeper-server/internal/api/http/httpctx"
	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/service"
)

// AccountService is the part of the account service the handlers use.
type AccountService interface {
	Register(ctx context.Context, params service.RegisterParams) (model.User, error)
	Get(ctx context.Context, requester, username string) (model.User, error)
}

// User serves registration and profile endpoints.
type User struct {
	service AccountService
	logger  *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(service AccountService, logger *logger.Logger) *User {
	return &User{service: service, logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userResponse never includes the password hash.
type userResponse struct {
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// Register handles POST /users.
func (h *User) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email, full_name and password are required"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get handles GET /users/:username. Self-only.
func (h *User) Get(c *gin.Context) {
	ident, ok := httpctx.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.service.Get(c.Request.Context(), ident.Username, c.Param("username"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
