package domain

import (
	"context"
	"time"
)

// User is the public projection of an account. It is safe to serialize;
// it never carries credential material.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserCredentials is the private projection of an account record. It adds
// the stored secrets and must never cross the handler boundary.
// A nil RefreshTokenHash means the account has no active session.
type UserCredentials struct {
	User
	PasswordHash     string
	RefreshTokenHash *string
}

// UserRepository defines persistence operations for users. Methods return
// either the public or the credential projection explicitly; callers choose
// the narrowest shape that serves them.
type UserRepository interface {
	// Create inserts a new user and returns the public projection.
	// Returns ErrDuplicateEmail if the email is already taken.
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByEmailWithPassword returns the credential projection, used only
	// by the login workflow.
	GetByEmailWithPassword(ctx context.Context, email string) (*UserCredentials, error)
	// GetByIDWithRefreshHash returns the credential projection, used only
	// by the refresh workflow.
	GetByIDWithRefreshHash(ctx context.Context, id string) (*UserCredentials, error)
	// SetRefreshTokenHash overwrites the stored refresh token digest.
	// A nil hash revokes the active session. The write is idempotent.
	SetRefreshTokenHash(ctx context.Context, id string, hash *string) error
}
