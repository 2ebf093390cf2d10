// Package token issues and validates the service's own bearer tokens.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/secret"
)

// Claims represents JWT claims carrying the subject username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Manager issues tokens under the current signing secret and validates
// tokens against every secret the provider still accepts.
type Manager struct {
	secrets secret.Provider
	ttl     time.Duration
}

// NewManager creates a token manager with the given secret provider and
// token lifetime.
func NewManager(secrets secret.Provider, ttl time.Duration) *Manager {
	return &Manager{secrets: secrets, ttl: ttl}
}

// Issue creates a signed token for username. New tokens always use the
// current secret, never a previous one, so rotations converge. Returns
// the token and its lifetime in seconds.
func (m *Manager) Issue(ctx context.Context, username string) (string, int64, error) {
	current, err := m.secrets.Current(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("failed to fetch signing secret: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: username,
	})

	signed, err := token.SignedString([]byte(current))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, int64(m.ttl.Seconds()), nil
}

// Validate checks tokenString against each known secret in order and
// returns the claims of the first verifying match.
//
// A token whose signature verifies but whose claims are expired is
// rejected with ErrTokenExpired immediately: expiry is a property of the
// claims, not the signature, so trying further secrets cannot save it.
// Any other per-secret failure moves on to the next secret; exhausting
// all secrets yields ErrTokenInvalid.
func (m *Manager) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	secrets, err := m.secrets.AllValid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch validation secrets: %w", err)
	}

	for _, s := range secrets {
		claims := &Claims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
			}
			return []byte(s), nil
		})
		if err == nil {
			if claims.Username == "" {
				claims.Username = claims.Subject
			}
			return claims, nil
		}
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, model.ErrTokenExpired
		}
	}

	return nil, model.ErrTokenInvalid
}
