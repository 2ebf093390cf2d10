package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/oauth"
)

// TokenIssuer signs bearer tokens for resolved local identities.
type TokenIssuer interface {
	Issue(ctx context.Context, username string) (token string, expiresIn int64, err error)
}

// OAuthProvider drives the external authorization-code flow.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (model.ExternalIdentity, error)
}

// TokenResult is the envelope returned by both login flows.
type TokenResult struct {
	Token     string
	Username  string
	ExpiresIn int64
}

// Auth handles password login and the OAuth login flow.
type Auth struct {
	users    model.UserStore
	hasher   PasswordHasher
	issuer   TokenIssuer
	provider OAuthProvider
	accounts *Account
	logger   *logger.Logger
}

// NewAuth creates a new Auth service.
func NewAuth(
	users model.UserStore,
	hasher PasswordHasher,
	issuer TokenIssuer,
	provider OAuthProvider,
	accounts *Account,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		provider: provider,
		accounts: accounts,
		logger:   logger,
	}
}

// Login verifies a username/password pair and issues a token. Every
// failure mode (unknown username, wrong password, account without a
// password) collapses into ErrInvalidCredentials so responses cannot
// distinguish them.
func (a *Auth) Login(ctx context.Context, username, password string) (TokenResult, error) {
	a.logger.Debug("Auth service: login attempt",
		"username", username)

	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return TokenResult{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user",
			"username", username,
			"error", err.Error())
		return TokenResult{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() || !a.hasher.Verify(password, user.PasswordHash) {
		return TokenResult{}, model.ErrInvalidCredentials
	}

	token, expiresIn, err := a.issuer.Issue(ctx, user.Username)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"username", username,
			"error", err.Error())
		return TokenResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login successful",
		"username", user.Username)

	return TokenResult{Token: token, Username: user.Username, ExpiresIn: expiresIn}, nil
}

// BeginOAuth starts the authorization-code flow: a fresh CSRF state and
// the provider URL to redirect the user to. The state is returned to
// the client; it is not persisted server-side.
func (a *Auth) BeginOAuth(_ context.Context) (authURL string, state string, err error) {
	state, err = oauth.GenerateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return a.provider.AuthURL(state), state, nil
}

// CompleteOAuth exchanges the callback code, resolves the external
// identity to a local account and issues the same token envelope as
// password login.
func (a *Auth) CompleteOAuth(ctx context.Context, code string) (TokenResult, error) {
	a.logger.Debug("Auth service: completing oauth flow")

	ident, err := a.provider.Exchange(ctx, code)
	if err != nil {
		a.logger.Error("Auth service: code exchange failed",
			"error", err.Error())
		return TokenResult{}, err
	}

	user, err := a.accounts.ResolveExternal(ctx, ident)
	if err != nil {
		return TokenResult{}, err
	}

	token, expiresIn, err := a.issuer.Issue(ctx, user.Username)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"username", user.Username,
			"error", err.Error())
		return TokenResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: oauth login successful",
		"username", user.Username,
		"provider", ident.Provider)

	return TokenResult{Token: token, Username: user.Username, ExpiresIn: expiresIn}, nil
}
