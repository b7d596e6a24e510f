package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique).
	// Used for login and for finding a partner during couple setup.
	Email string

	// DisplayName is the name shown to the partner.
	DisplayName string

	// AvatarURL references the user's profile picture. May be empty.
	AvatarURL string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UserProfile is the public part of a user shown next to couples and expenses.
type UserProfile struct {
	ID     string
	Name   string
	Avatar string
}

// Profile returns the public profile of the user.
func (u *User) Profile() UserProfile {
	if u == nil {
		return UserProfile{}
	}
	return UserProfile{ID: u.ID, Name: u.DisplayName, Avatar: u.AvatarURL}
}
