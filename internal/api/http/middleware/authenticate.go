package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/debtkeeper/debtkeeper-server/internal/api/http/httpctx"
	"github.com/debtkeeper/debtkeeper-server/internal/config"
	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/token"
)

const bearerPrefix = "Bearer "

// TokenValidator validates locally issued bearer tokens.
type TokenValidator interface {
	Validate(ctx context.Context, raw string) (*token.Claims, error)
}

// IdentityVerifier verifies tokens issued by an external identity
// provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (model.ExternalIdentity, error)
}

// Authenticate guards protected routes. It extracts the bearer token,
// resolves it to a local user according to the deployment mode and
// attaches the identity to the request context. Every failure path
// aborts with the same 401 body.
type Authenticate struct {
	mode     string
	tokens   TokenValidator
	verifier IdentityVerifier
	users    model.UserStore
	logger   *logger.Logger
}

// NewAuthenticate creates authentication middleware for the given
// deployment mode.
func NewAuthenticate(
	mode string,
	tokens TokenValidator,
	verifier IdentityVerifier,
	users model.UserStore,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		mode:     mode,
		tokens:   tokens,
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

// Handle is the gin middleware function.
func (m *Authenticate) Handle(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		m.deny(c)
		return
	}

	token := header[len(bearerPrefix):]
	if token == "" {
		m.deny(c)
		return
	}

	var user model.User
	var externalID string
	var err error

	switch m.mode {
	case config.AuthModeToken:
		user, err = m.resolveToken(c.Request.Context(), token)
	case config.AuthModeIdentity:
		user, externalID, err = m.resolveIdentity(c.Request.Context(), token)
	default:
		m.logger.Error("Authenticate middleware: unknown auth mode",
			"mode", m.mode)
		m.deny(c)
		return
	}

	if err != nil || user.Username == "" {
		m.deny(c)
		return
	}

	httpctx.SetIdentity(c, model.Identity{
		Username:   user.Username,
		ExternalID: externalID,
		Email:      user.Email,
	})

	c.Next()
}

func (m *Authenticate) resolveToken(ctx context.Context, token string) (model.User, error) {
	claims, err := m.tokens.Validate(ctx, token)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"error", err.Error())
		return model.User{}, err
	}

	user, err := m.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token subject not found",
			"username", claims.Username)
		return model.User{}, err
	}

	return user, nil
}

func (m *Authenticate) resolveIdentity(ctx context.Context, token string) (model.User, string, error) {
	ident, err := m.verifier.Verify(ctx, token)
	if err != nil {
		m.logger.Debug("Authenticate middleware: identity rejected",
			"error", err.Error())
		return model.User{}, "", err
	}

	user, err := m.users.GetByExternalID(ctx, ident.ExternalID)
	if err != nil {
		m.logger.Debug("Authenticate middleware: no local account for identity",
			"external_id", ident.ExternalID)
		return model.User{}, "", err
	}

	return user, ident.ExternalID, nil
}

func (m *Authenticate) deny(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
