package domain

// User represents an account known to the auth directory.
// Email is empty when the account has none.
type User struct {
	Username     string
	PasswordHash string
	Email        string
	Active       bool
}
