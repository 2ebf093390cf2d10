package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/service"
)

// AuthService is the part of the auth service the handlers use.
type AuthService interface {
	Login(ctx context.Context, username, password string) (service.TokenResult, error)
	BeginOAuth(ctx context.Context) (authURL string, state string, err error)
	CompleteOAuth(ctx context.Context, code string) (service.TokenResult, error)
}

// Auth serves the login and OAuth endpoints.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresIn int64  `json:"expires_in"`
}

// Login handles POST /login.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		Token:     result.Token,
		Username:  result.Username,
		ExpiresIn: result.ExpiresIn,
	})
}

// BeginOAuth handles POST /auth/google. The state is returned to the
// client for verification at callback time.
func (h *Auth) BeginOAuth(c *gin.Context) {
	authURL, state, err := h.service.BeginOAuth(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": authURL, "state": state})
}

type oauthCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// CompleteOAuth handles POST /auth/google/callback.
func (h *Auth) CompleteOAuth(c *gin.Context) {
	var req oauthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code is required"})
		return
	}

	result, err := h.service.CompleteOAuth(c.Request.Context(), req.Code)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		Token:     result.Token,
		Username:  result.Username,
		ExpiresIn: result.ExpiresIn,
	})
}
