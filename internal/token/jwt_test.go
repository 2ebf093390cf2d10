package token

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/secret"
)

func signToken(t *testing.T, secretKey, username string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: username,
	})
	signed, err := tok.SignedString([]byte(secretKey))
	require.NoError(t, err)
	return signed
}

func TestManager_IssueAndValidate(t *testing.T) {
	ctx := context.Background()
	m := NewManager(secret.NewEnvProvider("s2", ""), 24*time.Hour)

	tok, expiresIn, err := m.Issue(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64((24 * time.Hour).Seconds()), expiresIn)

	claims, err := m.Validate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
}

func TestManager_Validate_PreviousSecret(t *testing.T) {
	ctx := context.Background()

	// token issued before the rotation, under s1
	old := NewManager(secret.NewEnvProvider("s1", ""), time.Hour)
	tok, _, err := old.Issue(ctx, "alice")
	require.NoError(t, err)

	// after rotation both secrets validate
	rotated := NewManager(secret.NewEnvProvider("s2", "s1"), time.Hour)
	claims, err := rotated.Validate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	// once s1 is dropped the token stops validating
	final := NewManager(secret.NewEnvProvider("s2", ""), time.Hour)
	_, err = final.Validate(ctx, tok)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestManager_Validate_Expired(t *testing.T) {
	ctx := context.Background()
	m := NewManager(secret.NewEnvProvider("s2", "s1"), time.Hour)

	tok := signToken(t, "s2", "alice", -time.Minute)

	_, err := m.Validate(ctx, tok)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestManager_Validate_ExpiredUnderPreviousSecret(t *testing.T) {
	ctx := context.Background()
	m := NewManager(secret.NewEnvProvider("s2", "s1"), time.Hour)

	tok := signToken(t, "s1", "alice", -time.Minute)

	_, err := m.Validate(ctx, tok)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestManager_Validate_UnknownSecret(t *testing.T) {
	ctx := context.Background()
	m := NewManager(secret.NewEnvProvider("s2", "s1"), time.Hour)

	tok := signToken(t, "s0", "alice", time.Hour)

	_, err := m.Validate(ctx, tok)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestManager_Validate_Garbage(t *testing.T) {
	ctx := context.Background()
	m := NewManager(secret.NewEnvProvider("s2", ""), time.Hour)

	_, err := m.Validate(ctx, "not.a.token")
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestManager_Validate_WrongAlgorithm(t *testing.T) {
	ctx := context.Background()
	m := NewManager(secret.NewEnvProvider("s2", ""), time.Hour)

	// alg=none style token must never validate
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Validate(ctx, signed)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}
