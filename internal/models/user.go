package models

import "time"

// User represents a member account in the system.
type User struct {
	ID           string    `json:"id"`
	ClerkID      string    `json:"clerkId"` // External identity reference issued by the identity provider
	Username     string    `json:"username"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicProfile is the subset of a user that anyone may see.
type PublicProfile struct {
	Username  string    `json:"username"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile strips everything but the public fields.
func (u User) Profile() PublicProfile {
	return PublicProfile{
		Username:  u.Username,
		ImageURL:  u.ImageURL,
		CreatedAt: u.CreatedAt,
	}
}
