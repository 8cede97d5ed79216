// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by repositories when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when the store rejects a username
	// because it is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	// GetByUsername returns ErrNotFound when no user has that username.
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Create returns ErrDuplicateUsername on a uniqueness violation.
	Create(ctx context.Context, username, passwordHash string) (*User, error)
}
