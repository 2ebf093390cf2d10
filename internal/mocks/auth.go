package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/token"
)

// PasswordHasher mocks service.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(plain, stored string) bool {
	args := m.Called(plain, stored)
	return args.Bool(0)
}

// TokenIssuer mocks service.TokenIssuer.
type TokenIssuer struct {
	mock.Mock
}

func (m *TokenIssuer) Issue(ctx context.Context, username string) (string, int64, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

// TokenValidator mocks middleware.TokenValidator.
type TokenValidator struct {
	mock.Mock
}

func (m *TokenValidator) Validate(ctx context.Context, raw string) (*token.Claims, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.Claims), args.Error(1)
}

// IdentityVerifier mocks middleware.IdentityVerifier and
// identity.Verifier.
type IdentityVerifier struct {
	mock.Mock
}

func (m *IdentityVerifier) Verify(ctx context.Context, raw string) (model.ExternalIdentity, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(model.ExternalIdentity), args.Error(1)
}

// OAuthProvider mocks service.OAuthProvider.
type OAuthProvider struct {
	mock.Mock
}

func (m *OAuthProvider) AuthURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *OAuthProvider) Exchange(ctx context.Context, code string) (model.ExternalIdentity, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.ExternalIdentity), args.Error(1)
}
