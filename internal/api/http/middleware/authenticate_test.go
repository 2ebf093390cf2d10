package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/debtkeeper/debtkeeper-server/internal/api/http/httpctx"
	"github.com/debtkeeper/debtkeeper-server/internal/config"
	"github.com/debtkeeper/debtkeeper-server/internal/mocks"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/testutil"
	"github.com/debtkeeper/debtkeeper-server/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveWithGate(m *Authenticate, authorization string) (*httptest.ResponseRecorder, *model.Identity) {
	var captured *model.Identity

	engine := gin.New()
	engine.GET("/protected", m.Handle, func(c *gin.Context) {
		if ident, ok := httpctx.GetIdentity(c); ok {
			captured = &ident
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	return rec, captured
}

func TestAuthenticate_TokenMode_Success(t *testing.T) {
	tokens := &mocks.TokenValidator{}
	users := &mocks.UserStore{}

	tokens.On("Validate", mock.Anything, "good-token").Return(&token.Claims{Username: "alice"}, nil)
	users.On("GetByUsername", mock.Anything, "alice").Return(model.User{
		Username: "alice",
		Email:    "alice@example.com",
	}, nil)

	m := NewAuthenticate(config.AuthModeToken, tokens, nil, users, testutil.MakeNoopLogger())

	rec, ident := serveWithGate(m, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ident)
	assert.Equal(t, "alice", ident.Username)
	assert.Equal(t, "alice@example.com", ident.Email)
}

func TestAuthenticate_TokenMode_Denials(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
		setup         func(tokens *mocks.TokenValidator, users *mocks.UserStore)
	}{
		{
			name:          "missing header",
			authorization: "",
		},
		{
			name:          "no bearer prefix",
			authorization: "Token abc",
		},
		{
			name:          "lowercase bearer",
			authorization: "bearer abc",
		},
		{
			name:          "empty token",
			authorization: "Bearer ",
		},
		{
			name:          "invalid token",
			authorization: "Bearer bad-token",
			setup: func(tokens *mocks.TokenValidator, _ *mocks.UserStore) {
				tokens.On("Validate", mock.Anything, "bad-token").Return(nil, model.ErrTokenInvalid)
			},
		},
		{
			name:          "expired token",
			authorization: "Bearer expired-token",
			setup: func(tokens *mocks.TokenValidator, _ *mocks.UserStore) {
				tokens.On("Validate", mock.Anything, "expired-token").Return(nil, model.ErrTokenExpired)
			},
		},
		{
			name:          "subject no longer exists",
			authorization: "Bearer orphan-token",
			setup: func(tokens *mocks.TokenValidator, users *mocks.UserStore) {
				tokens.On("Validate", mock.Anything, "orphan-token").Return(&token.Claims{Username: "ghost"}, nil)
				users.On("GetByUsername", mock.Anything, "ghost").Return(model.User{}, model.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &mocks.TokenValidator{}
			users := &mocks.UserStore{}
			if tt.setup != nil {
				tt.setup(tokens, users)
			}

			m := NewAuthenticate(config.AuthModeToken, tokens, nil, users, testutil.MakeNoopLogger())

			rec, ident := serveWithGate(m, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			assert.Nil(t, ident)
		})
	}
}

func TestAuthenticate_IdentityMode_Success(t *testing.T) {
	verifier := &mocks.IdentityVerifier{}
	users := &mocks.UserStore{}

	verifier.On("Verify", mock.Anything, "provider-token").Return(model.ExternalIdentity{
		ExternalID:    "ext-123",
		Email:         "alice@example.com",
		EmailVerified: true,
	}, nil)
	users.On("GetByExternalID", mock.Anything, "ext-123").Return(model.User{
		Username:   "alice",
		Email:      "alice@example.com",
		ExternalID: "ext-123",
	}, nil)

	m := NewAuthenticate(config.AuthModeIdentity, nil, verifier, users, testutil.MakeNoopLogger())

	rec, ident := serveWithGate(m, "Bearer provider-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ident)
	assert.Equal(t, "alice", ident.Username)
	assert.Equal(t, "ext-123", ident.ExternalID)
}

func TestAuthenticate_IdentityMode_Denials(t *testing.T) {
	tests := []struct {
		name  string
		setup func(verifier *mocks.IdentityVerifier, users *mocks.UserStore)
	}{
		{
			name: "verification fails",
			setup: func(verifier *mocks.IdentityVerifier, _ *mocks.UserStore) {
				verifier.On("Verify", mock.Anything, "provider-token").Return(model.ExternalIdentity{}, model.ErrTokenInvalid)
			},
		},
		{
			name: "no local account",
			setup: func(verifier *mocks.IdentityVerifier, users *mocks.UserStore) {
				verifier.On("Verify", mock.Anything, "provider-token").Return(model.ExternalIdentity{ExternalID: "ext-123"}, nil)
				users.On("GetByExternalID", mock.Anything, "ext-123").Return(model.User{}, model.ErrNotFound)
			},
		},
		{
			name: "local account without username",
			setup: func(verifier *mocks.IdentityVerifier, users *mocks.UserStore) {
				verifier.On("Verify", mock.Anything, "provider-token").Return(model.ExternalIdentity{ExternalID: "ext-123"}, nil)
				users.On("GetByExternalID", mock.Anything, "ext-123").Return(model.User{Email: "a@b.com"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mocks.IdentityVerifier{}
			users := &mocks.UserStore{}
			tt.setup(verifier, users)

			m := NewAuthenticate(config.AuthModeIdentity, nil, verifier, users, testutil.MakeNoopLogger())

			rec, ident := serveWithGate(m, "Bearer provider-token")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, ident)
		})
	}
}

func TestAuthenticate_UnknownMode(t *testing.T) {
	m := NewAuthenticate("bogus", &mocks.TokenValidator{}, nil, &mocks.UserStore{}, testutil.MakeNoopLogger())

	rec, ident := serveWithGate(m, "Bearer whatever")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, ident)
}
