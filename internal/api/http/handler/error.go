package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/oauth"
)

// handleError maps service errors to HTTP responses. Validation errors
// carry their detail to the client; authentication failures and
// internal errors get generic bodies only.
func handleError(c *gin.Context, l *logger.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, model.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "external email not verified"})
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, oauth.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code expired or already used"})
	case errors.Is(err, oauth.ErrCodeMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed authorization code"})
	case errors.Is(err, oauth.ErrClientConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": "oauth client configuration error"})
	default:
		l.Error("HTTP handler: internal error",
			"path", c.Request.URL.Path,
			"error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
