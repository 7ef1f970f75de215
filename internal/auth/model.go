package auth

import (
	"context"
	"errors"
	"time"
)

// User is an account identity. PasswordHash and the reset token pair never
// leave this package.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	ResetTokenHash    *string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore is the persistence contract for accounts.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// SetResetToken stores the hashed reset token and its expiry.
	SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error
	// GetByResetToken matches an unexpired hashed token.
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	// UpdatePassword replaces the hash and clears any reset token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// DeleteCascade removes the user's application records first, then the
	// identity, as one atomic sequence. Returns how many records went.
	DeleteCascade(ctx context.Context, userID string) (int64, error)
}
