package repository

import (
	"context"
	"errors"

	"authrel-demo/internal/domain"
)

// ErrUserNotFound is returned when the directory has no account for a username.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the user directory consulted by login and token checks.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
