package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the internal numeric identifier. Never exposed to clients.
	ID int64 `db:"id"`

	// UID is the external identifier (UUID format) handed to clients and
	// embedded in tokens.
	UID string `db:"uid"`

	// Email is the user's email address (unique). Used for login and for
	// adding the user to circles.
	Email string `db:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `db:"password_hash"`

	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `db:"created_at"`
}

// NewUser creates a User with a fresh UID. The internal ID is assigned by
// storage on insert.
func NewUser(email, firstName, lastName, passwordHash string) *User {
	return &User{
		UID:          uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    time.Now().Unix(),
	}
}
