// Package oauth implements the Google OAuth 2.0 authorization-code flow.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/debtkeeper/debtkeeper-server/internal/config"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
)

// Upstream token-endpoint failures collapsed into a small set of
// user-actionable errors. Raw provider responses never reach clients.
var (
	// ErrCodeExpired covers expired and already-redeemed authorization codes.
	ErrCodeExpired = errors.New("authorization code expired or already used")
	// ErrCodeMalformed indicates a syntactically invalid code or request.
	ErrCodeMalformed = errors.New("malformed authorization code")
	// ErrClientConfig indicates a client id/secret or redirect URI mismatch.
	ErrClientConfig = errors.New("oauth client configuration error")
	// ErrExchangeFailed covers everything else.
	ErrExchangeFailed = errors.New("token exchange failed")
)

const (
	authEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

	stateEntropy = 32
)

// GoogleProvider drives the authorization-code flow against Google and
// fetches the user's profile with the exchanged access token.
type GoogleProvider struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	userInfoURL  string
	httpClient   *http.Client
}

// NewGoogleProvider creates a provider from OAuth configuration.
func NewGoogleProvider(cfg config.OAuth) *GoogleProvider {
	return &GoogleProvider{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		tokenURL:     tokenEndpoint,
		userInfoURL:  userInfoEndpoint,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// GenerateState returns a high-entropy random state string for CSRF
// protection of the authorization redirect.
func GenerateState() (string, error) {
	buf := make([]byte, stateEntropy)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// AuthURL builds the authorization URL carrying the given state.
func (g *GoogleProvider) AuthURL(state string) string {
	params := url.Values{}
	params.Set("client_id", g.clientID)
	params.Set("redirect_uri", g.redirectURI)
	params.Set("scope", "openid email profile")
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	params.Set("include_granted_scopes", "true")

	return authEndpoint + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type tokenError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

type userInfoResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange trades an authorization code for tokens and resolves the
// user's profile, returning a normalized external identity.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (model.ExternalIdentity, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", g.clientID)
	data.Set("client_secret", g.clientSecret)
	data.Set("redirect_uri", g.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ExternalIdentity{}, mapExchangeError(resp)
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if tokens.AccessToken == "" {
		return model.ExternalIdentity{}, ErrExchangeFailed
	}

	return g.userInfo(ctx, tokens.AccessToken)
}

// mapExchangeError pattern-matches Google's error response into the
// package's error set.
func mapExchangeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var te tokenError
	if err := json.Unmarshal(body, &te); err != nil {
		return fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	switch te.Error {
	case "invalid_grant":
		return ErrCodeExpired
	case "invalid_request":
		return ErrCodeMalformed
	case "invalid_client", "unauthorized_client", "redirect_uri_mismatch":
		return ErrClientConfig
	default:
		return fmt.Errorf("%w: %s", ErrExchangeFailed, te.Error)
	}
}

func (g *GoogleProvider) userInfo(ctx context.Context, accessToken string) (model.ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, http.NoBody)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ExternalIdentity{}, fmt.Errorf("%w: userinfo status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	return model.ExternalIdentity{
		ExternalID:    info.ID,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail,
		FullName:      info.Name,
		AvatarURL:     info.Picture,
		Provider:      "google",
	}, nil
}
