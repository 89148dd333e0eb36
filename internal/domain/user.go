package domain

import (
	"context"
	"time"
)

// User represents a registered account. Email is empty when none was given.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user and sets ID and CreatedAt. It returns
	// ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetByUsername returns the full record, including the password hash.
	GetByUsername(ctx context.Context, username string) (*User, error)
}
