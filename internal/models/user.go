package models

import "time"

// User is the relational account row. Password hash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// UserProfile is the 1:1 profile row for a user.
type UserProfile struct {
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	UpdatedAt      time.Time `json:"-"`
}

// OwnerProfile is the public projection attached to each list item.
type OwnerProfile struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}
