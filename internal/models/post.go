package models

import "time"

// Post is a persisted piece of content authored by a user.
type Post struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername,omitempty"` // Filled on reads that join users
	Content        string    `json:"content"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
