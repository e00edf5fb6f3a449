package websocket

import (
	"encoding/json"

	"github.com/isdelr/social-be/internal/models"
)

// ActionPostCreated is sent to feed clients whenever a post is published.
const ActionPostCreated = "post.created"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewPostCreatedMessage encodes the feed message for a new post.
func NewPostCreatedMessage(post models.Post) ([]byte, error) {
	return json.Marshal(Message{Action: ActionPostCreated, Payload: post})
}
