package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByExternalID(ctx context.Context, externalID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// Create inserts a new user; a username collision returns ErrConflict.
	Create(ctx context.Context, user User) (User, error)
	// Update replaces the stored profile for user.Username.
	Update(ctx context.Context, user User) (User, error)
}

// User represents a stored account. A user always carries at least one
// usable credential: a password hash, an external identity, or both.
type User struct {
	Username         string
	Email            string
	FullName         string
	PasswordHash     string
	ExternalID       string
	ExternalProvider string
	AvatarURL        string
	EmailVerified    bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPassword reports whether the account supports password login.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
