package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, stored string) bool
}

const (
	usernameMinLength = 3
	usernameMaxLength = 50
	passwordMinLength = 8

	// usernameProbeLimit bounds the collision loop during username
	// generation. Exceeding it fails the resolution instead of
	// spinning on a pathological store.
	usernameProbeLimit = 1000
)

// RegisterParams carries traditional (password) registration input.
type RegisterParams struct {
	Username string
	Email    string
	FullName string
	Password string
}

// Account resolves external identities to local users and handles
// traditional registration.
type Account struct {
	users  model.UserStore
	hasher PasswordHasher
	logger *logger.Logger
}

// NewAccount creates a new Account service.
func NewAccount(users model.UserStore, hasher PasswordHasher, logger *logger.Logger) *Account {
	return &Account{users: users, hasher: hasher, logger: logger}
}

// Register creates a password-based user. The password is hashed before
// anything is stored; a duplicate username surfaces as ErrConflict.
func (a *Account) Register(ctx context.Context, params RegisterParams) (model.User, error) {
	a.logger.Debug("Account service: registering user",
		"username", params.Username)

	if len(params.Username) < usernameMinLength || len(params.Username) > usernameMaxLength {
		return model.User{}, fmt.Errorf("%w: username must be %d to %d characters",
			model.ErrValidation, usernameMinLength, usernameMaxLength)
	}
	if strings.ContainsAny(params.Username, " ") {
		return model.User{}, fmt.Errorf("%w: username must not contain spaces", model.ErrValidation)
	}
	if !strings.Contains(params.Email, "@") {
		return model.User{}, fmt.Errorf("%w: invalid email address", model.ErrValidation)
	}
	if params.FullName == "" {
		return model.User{}, fmt.Errorf("%w: full name is required", model.ErrValidation)
	}
	if len(params.Password) < passwordMinLength {
		return model.User{}, fmt.Errorf("%w: password must be at least %d characters",
			model.ErrValidation, passwordMinLength)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		Username:      params.Username,
		Email:         params.Email,
		FullName:      params.FullName,
		PasswordHash:  hash,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := a.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			a.logger.Info("Account service: username already taken",
				"username", params.Username)
			return model.User{}, model.ErrConflict
		}
		a.logger.Error("Account service: failed to create user",
			"username", params.Username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Account service: user registered",
		"username", created.Username)

	return created, nil
}

// Get fetches a user profile. Callers may only read their own profile;
// any other username is Forbidden regardless of whether it exists.
func (a *Account) Get(ctx context.Context, requester, username string) (model.User, error) {
	if requester != username {
		return model.User{}, model.ErrForbidden
	}

	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// ResolveExternal finds or creates the local user for a verified
// external identity.
//
// Resolution order: existing link by external id, then link by email
// match, then account creation with a generated username. An identity
// whose email the provider has not verified is rejected outright;
// unverified external email never becomes a trusted local identity.
func (a *Account) ResolveExternal(ctx context.Context, ident model.ExternalIdentity) (model.User, error) {
	if !ident.EmailVerified {
		a.logger.Warn("Account service: rejecting unverified external email",
			"provider", ident.Provider)
		return model.User{}, model.ErrEmailNotVerified
	}

	user, err := a.users.GetByExternalID(ctx, ident.ExternalID)
	if err == nil {
		return a.refreshProfile(ctx, user, ident)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by external id: %w", err)
	}

	user, err = a.users.GetByEmail(ctx, ident.Email)
	if err == nil {
		return a.linkExternal(ctx, user, ident)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return a.createFromExternal(ctx, ident)
}

// refreshProfile picks up provider-side profile changes on an already
// linked account.
func (a *Account) refreshProfile(ctx context.Context, user model.User, ident model.ExternalIdentity) (model.User, error) {
	if user.AvatarURL == ident.AvatarURL && (ident.FullName == "" || user.FullName == ident.FullName) {
		return user, nil
	}

	user.AvatarURL = ident.AvatarURL
	if ident.FullName != "" {
		user.FullName = ident.FullName
	}
	user.UpdatedAt = time.Now()

	updated, err := a.users.Update(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to refresh user profile: %w", err)
	}
	return updated, nil
}

// linkExternal attaches the external identity to an existing account
// matched by email. Linking is automatic; the verified-email gate in
// ResolveExternal is the only guard.
func (a *Account) linkExternal(ctx context.Context, user model.User, ident model.ExternalIdentity) (model.User, error) {
	a.logger.Info("Account service: linking external identity to existing account",
		"username", user.Username,
		"provider", ident.Provider)

	user.ExternalID = ident.ExternalID
	user.ExternalProvider = ident.Provider
	user.AvatarURL = ident.AvatarURL
	user.EmailVerified = true
	user.UpdatedAt = time.Now()

	updated, err := a.users.Update(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to link external identity: %w", err)
	}
	return updated, nil
}

func (a *Account) createFromExternal(ctx context.Context, ident model.ExternalIdentity) (model.User, error) {
	username, err := a.GenerateUsername(ctx, ident.Email)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now()
	user := model.User{
		Username:         username,
		Email:            ident.Email,
		FullName:         ident.FullName,
		ExternalID:       ident.ExternalID,
		ExternalProvider: ident.Provider,
		AvatarURL:        ident.AvatarURL,
		EmailVerified:    true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := a.users.Create(ctx, user)
	if err != nil {
		a.logger.Error("Account service: failed to create user from external identity",
			"username", username,
			"provider", ident.Provider,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Account service: created user from external identity",
		"username", created.Username,
		"provider", ident.Provider)

	return created, nil
}

// GenerateUsername derives a free username from the email local-part,
// probing the store and appending a numeric suffix on collision. The
// probe/create race is closed by the store's conflict-detecting insert.
func (a *Account) GenerateUsername(ctx context.Context, email string) (string, error) {
	base := sanitizeUsername(localPart(email))

	for i := 0; i < usernameProbeLimit; i++ {
		candidate := base
		if i > 0 {
			suffix := strconv.Itoa(i)
			if len(candidate)+len(suffix) > usernameMaxLength {
				candidate = candidate[:usernameMaxLength-len(suffix)]
			}
			candidate += suffix
		}

		_, err := a.users.GetByUsername(ctx, candidate)
		if errors.Is(err, model.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe username %q: %w", candidate, err)
		}
	}

	return "", model.ErrUsernameExhausted
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

// sanitizeUsername lowercases the candidate, maps separators to
// underscores, drops everything else outside [a-z0-9_] and enforces
// the length bounds.
func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '.', r == '-':
			b.WriteByte('_')
		}
	}

	out := b.String()
	if len(out) > usernameMaxLength {
		out = out[:usernameMaxLength]
	}
	if len(out) < usernameMinLength {
		out = "user" + out
	}
	return out
}
