// Package identity verifies tokens issued by an external identity
// provider and normalizes them into a provider-independent record.
//
// Two interchangeable strategies exist: LocalVerifier checks the token
// cryptographically with a shared secret, RemoteVerifier delegates to
// the provider's introspection endpoint. New picks one based on which
// configuration is available.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/debtkeeper/debtkeeper-server/internal/config"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
)

const (
	// clockSkewLeeway tolerates small clock differences between this
	// service and the identity provider.
	clockSkewLeeway = 10 * time.Second

	introspectTimeout = 10 * time.Second
)

// Verifier validates a raw external identity token.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (model.ExternalIdentity, error)
}

// New selects the verification strategy: local when a shared JWT secret
// is configured, remote introspection otherwise.
func New(cfg config.Identity) (Verifier, error) {
	if cfg.JWTSecret != "" {
		return NewLocalVerifier(cfg), nil
	}
	if cfg.BaseURL != "" {
		return NewRemoteVerifier(cfg, nil), nil
	}
	return nil, errors.New("identity: neither JWT secret nor introspection base URL configured")
}

// LocalVerifier verifies identity tokens with the provider's shared
// HMAC secret: signature, audience, issuer allow-list and expiry.
type LocalVerifier struct {
	secret   []byte
	audience string
	issuers  []string
	provider string
}

// NewLocalVerifier creates a verifier over the configured shared secret.
func NewLocalVerifier(cfg config.Identity) *LocalVerifier {
	return &LocalVerifier{
		secret:   []byte(cfg.JWTSecret),
		audience: cfg.Audience,
		issuers:  cfg.Issuers,
		provider: cfg.Provider,
	}
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email         string         `json:"email"`
	EmailVerified bool           `json:"email_verified"`
	Name          string         `json:"name"`
	Picture       string         `json:"picture"`
	UserMetadata  map[string]any `json:"user_metadata"`
}

func (v *LocalVerifier) Verify(_ context.Context, rawToken string) (model.ExternalIdentity, error) {
	claims := &identityClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkewLeeway),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.ExternalIdentity{}, model.ErrTokenExpired
		}
		return model.ExternalIdentity{}, model.ErrTokenInvalid
	}

	if len(v.issuers) > 0 && !issuerAllowed(v.issuers, claims.Issuer) {
		return model.ExternalIdentity{}, model.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return model.ExternalIdentity{}, model.ErrTokenInvalid
	}

	ident := model.ExternalIdentity{
		ExternalID:    claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		FullName:      claims.Name,
		AvatarURL:     claims.Picture,
		Provider:      v.provider,
	}
	applyMetadata(&ident, claims.UserMetadata)

	return ident, nil
}

func issuerAllowed(allowed []string, issuer string) bool {
	for _, a := range allowed {
		if a == issuer {
			return true
		}
	}
	return false
}

// applyMetadata fills profile fields from the provider's user_metadata
// bag when the top-level claims do not carry them.
func applyMetadata(ident *model.ExternalIdentity, metadata map[string]any) {
	if ident.FullName == "" {
		if name, ok := metadata["full_name"].(string); ok {
			ident.FullName = name
		}
	}
	if ident.AvatarURL == "" {
		if avatar, ok := metadata["avatar_url"].(string); ok {
			ident.AvatarURL = avatar
		}
	}
}

// RemoteVerifier delegates validation to the provider's introspection
// endpoint over TLS. No local cryptographic check is performed; a 200
// with a user payload is valid, any other status is a denial. One
// attempt per request, bounded by the client timeout.
type RemoteVerifier struct {
	baseURL  string
	apiKey   string
	provider string
	client   *http.Client
}

// NewRemoteVerifier creates an introspection-backed verifier. A nil
// client gets a default one with a bounded timeout.
func NewRemoteVerifier(cfg config.Identity, client *http.Client) *RemoteVerifier {
	if client == nil {
		client = &http.Client{Timeout: introspectTimeout}
	}
	return &RemoteVerifier{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		provider: cfg.Provider,
		client:   client,
	}
}

type introspectResponse struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt string         `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, rawToken string) (model.ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", http.NoBody)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to build introspection request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("introspection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ExternalIdentity{}, model.ErrTokenInvalid
	}

	var payload introspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to decode introspection response: %w", err)
	}
	if payload.ID == "" {
		return model.ExternalIdentity{}, model.ErrTokenInvalid
	}

	ident := model.ExternalIdentity{
		ExternalID:    payload.ID,
		Email:         payload.Email,
		EmailVerified: payload.EmailConfirmedAt != "",
		Provider:      v.provider,
	}
	applyMetadata(&ident, payload.UserMetadata)

	return ident, nil
}
