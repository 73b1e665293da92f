package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"authrel-demo/internal/domain"
	"authrel-demo/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInactiveUser is returned for accounts whose active flag is off.
	ErrInactiveUser = errors.New("user inactive")
)

// UserService describes the account checks behind login and token resolution.
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	// credentials are checked first so an inactive account never leaks through a wrong password
	if !user.Active {
		return nil, ErrInactiveUser
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// HashPassword returns the bcrypt hash of plain using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// SeedUsers returns the demo accounts with hashed passwords.
func SeedUsers(cost int) ([]domain.User, error) {
	seeds := []struct {
		username, password, email string
	}{
		{"Join", "qwerty", "join@example.com"},
		{"Ivan", "123456", ""},
	}

	users := make([]domain.User, 0, len(seeds))
	for _, seed := range seeds {
		hash, err := HashPassword(seed.password, cost)
		if err != nil {
			return nil, err
		}
		users = append(users, domain.User{
			Username:     seed.username,
			PasswordHash: hash,
			Email:        seed.email,
			Active:       true,
		})
	}
	return users, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		Username: user.Username,
		Email:    user.Email,
		Active:   user.Active,
	}
}
