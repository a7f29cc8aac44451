package domain

import (
	"net/mail"
	"strings"
)

// Role is the authorization role of a user.
type Role string

const (
	// RoleUser is a regular channel owner.
	RoleUser Role = "user"
	// RoleAdmin may manage categories, users and any content.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is supported.
func (r Role) IsValid() bool { return r == RoleUser || r == RoleAdmin }

// DefaultPhotoURL is the avatar of users that never uploaded one.
const DefaultPhotoURL = "no-photo.jpg"

// MinPasswordLength is the shortest accepted plain-text password.
const MinPasswordLength = 6

// User is a registered account; its channel is the set of videos it owns.
type User struct {
	ID           string `json:"id"`
	ChannelName  string `json:"channelName"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
	Role         Role   `json:"role"`
	PhotoURL     string `json:"photoUrl"`
	PhotoMediaID string `json:"photoMediaId,omitempty"`
	CreatedAt    int64  `json:"createdAt"` // unix millis
	UpdatedAt    int64  `json:"updatedAt"`
}

// Validate checks the user's own fields.
func (u *User) Validate() error {
	if err := requireText("channelName", u.ChannelName, 50); err != nil {
		return err
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if !u.Role.IsValid() {
		return NewValidationError("role", "must be user or admin")
	}
	if u.PasswordHash == "" {
		return NewValidationError("password", "is required")
	}
	return nil
}

// Channel is the public projection of the user.
func (u *User) Channel() Channel {
	return Channel{ID: u.ID, ChannelName: u.ChannelName, PhotoURL: u.PhotoURL}
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateEmail checks that s is a bare address.
func ValidateEmail(s string) error {
	if s == "" {
		return NewValidationError("email", "is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return NewValidationError("email", "must be a valid address")
	}
	return nil
}

// ValidatePassword checks a plain-text password before hashing.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return NewValidationError("password", "must be at least 6 characters")
	}
	return nil
}

// Channel is a user's public identity as shown next to videos and comments.
type Channel struct {
	ID          string
	ChannelName string
	PhotoURL    string
	Subscribers int
}
