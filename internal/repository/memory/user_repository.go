package memory

import (
	"context"

	"authrel-demo/internal/domain"
	"authrel-demo/internal/repository"
)

// UserRepository is a fixed, read-only directory held in memory.
// It is built once and never mutated, so concurrent lookups need no locking.
type UserRepository struct {
	users map[string]domain.User
}

func NewUserRepository(users ...domain.User) repository.UserRepository {
	byName := make(map[string]domain.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return &UserRepository{users: byName}
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}
