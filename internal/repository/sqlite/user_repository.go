package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"authrel-demo/internal/domain"
	"authrel-demo/internal/repository"
)

const createAuthUsersTable = `
CREATE TABLE IF NOT EXISTS auth_users (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	email TEXT NULL,
	active INTEGER NOT NULL DEFAULT 1
);
`

// UserRepository is a user directory persisted in sqlite.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAuthUsersTable); err != nil {
		return fmt.Errorf("create auth_users table: %w", err)
	}
	return nil
}

// Seed inserts the given accounts, leaving existing usernames untouched.
func (r *UserRepository) Seed(ctx context.Context, users ...domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	for _, user := range users {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO auth_users (username, password_hash, email, active)
VALUES (?, ?, ?, ?)
ON CONFLICT(username) DO NOTHING`,
			user.Username,
			user.PasswordHash,
			nullString(user.Email),
			user.Active,
		); err != nil {
			return fmt.Errorf("seed user %s: %w", user.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SetActive flips the active flag of an existing account.
func (r *UserRepository) SetActive(ctx context.Context, username string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE auth_users SET active=? WHERE username=?`, active, username)
	if err != nil {
		return fmt.Errorf("update user active: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT username, password_hash, email, active
FROM auth_users
WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user  domain.User
		email sql.NullString
	)
	if err := row.Scan(
		&user.Username,
		&user.PasswordHash,
		&email,
		&user.Active,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Email = email.String
	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
