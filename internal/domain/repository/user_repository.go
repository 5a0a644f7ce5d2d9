// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete
// implementation. Implementations must serialize mutations: the uniqueness
// check in Create and the full-collection rewrite are not safe under
// concurrent writers otherwise.
type UserRepository interface {
	// FindByID retrieves a single user by their numeric ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByUsername retrieves a single user by their unique username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user, assigning the next identifier. It returns
	// ErrUserExists when the username is already present.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error
}

// ErrUserExists is returned by Create when the username is already taken.
var ErrUserExists = errors.New("username already exists")
