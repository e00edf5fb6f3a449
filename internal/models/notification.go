package models

import "time"

// Notification represents an activity record shown to a single user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"` // e.g., "post.create"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
