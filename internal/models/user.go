// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that authors posts.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	Bio          *string   `json:"bio,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	WebsiteURL   *string   `json:"website_url,omitempty"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanAccess returns true if the user may act on the given post: the post's
// author and superusers qualify.
func (u *User) CanAccess(authorID uuid.UUID) bool {
	return u.IsSuperuser || u.ID == authorID
}

// Needs2FASetup returns true if the user has a TOTP secret pending
// verification but has not completed enrollment.
func (u *User) Needs2FASetup() bool {
	return u.TOTPSecret != nil && !u.TOTPEnabled
}

// UserRegistration is the input for creating a new account. The plaintext
// password is hashed at registration and never stored.
type UserRegistration struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Password   string  `json:"password"`
	Bio        *string `json:"bio,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	WebsiteURL *string `json:"website_url,omitempty"`
}

// UserPatch is a partial update for a user profile. Nil pointer fields are
// left untouched; Opt fields distinguish "absent" from "set to null".
type UserPatch struct {
	FullName   *string     `json:"full_name"`
	Bio        Opt[string] `json:"bio"`
	AvatarURL  Opt[string] `json:"avatar_url"`
	WebsiteURL Opt[string] `json:"website_url"`
}
