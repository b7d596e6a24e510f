package models

import "time"

// Couple represents exactly one pairing of two users.
// A user is a member of at most one couple; the store enforces it.
type Couple struct {
	// ID is the unique identifier for the couple (UUID format).
	ID string

	// UserOneID is the member who set the couple up.
	UserOneID string

	// UserTwoID is the partner invited during setup.
	UserTwoID string

	// StartDate is when the relationship started.
	StartDate time.Time

	// Anniversary is an optional anniversary date.
	Anniversary *time.Time

	// SharedGoals is optional free text.
	SharedGoals string

	// CreatedAt is the Unix timestamp when the couple was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last settings change.
	UpdatedAt int64
}

// HasMember reports whether userID is one of the two members.
func (c *Couple) HasMember(userID string) bool {
	return userID != "" && (c.UserOneID == userID || c.UserTwoID == userID)
}

// Partner returns the other member's ID, or "" if userID is not a member.
func (c *Couple) Partner(userID string) string {
	switch userID {
	case c.UserOneID:
		return c.UserTwoID
	case c.UserTwoID:
		return c.UserOneID
	}
	return ""
}

// CoupleDetail is a couple enriched with both member profiles.
type CoupleDetail struct {
	Couple
	UserOne UserProfile
	UserTwo UserProfile
}
