package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/models"
	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests related to posts.
type PostHandler struct {
	posts services.PostServiceProvider
	users services.UserServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts services.PostServiceProvider, users services.UserServiceProvider) *PostHandler {
	return &PostHandler{posts: posts, users: users}
}

// CreatePostPayload is the draft submitted by the composer. A GIF is not part of it.
type CreatePostPayload struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// CreatePostResponse reports the outcome of the create action.
type CreatePostResponse struct {
	Success bool         `json:"success"`
	Post    *models.Post `json:"post,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Create persists a post authored by the signed-in caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var payload CreatePostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, CreatePostResponse{Error: "Invalid request body"})
		return
	}

	author, err := h.users.GetUserByClerkID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeNotFound(w)
			return
		}
		log.Error().Err(err).Str("clerk_id", identity.ID).Msg("Failed to resolve post author")
		writeJSON(w, http.StatusInternalServerError, CreatePostResponse{Error: "Failed to create post"})
		return
	}

	post, err := h.posts.CreatePost(r.Context(), author, payload.Content, payload.ImageURL)
	if err != nil {
		if errors.Is(err, services.ErrEmptyPost) {
			writeJSON(w, http.StatusBadRequest, CreatePostResponse{Error: "Post must have content or an image"})
			return
		}
		if errors.Is(err, services.ErrInvalidImageURL) {
			writeJSON(w, http.StatusBadRequest, CreatePostResponse{Error: "Image URL must be an uploaded image or an http(s) link"})
			return
		}
		log.Error().Err(err).Str("user_id", author.ID).Msg("Failed to create post")
		writeJSON(w, http.StatusInternalServerError, CreatePostResponse{Error: "Failed to create post"})
		return
	}

	log.Info().Str("post_id", post.ID).Str("user_id", author.ID).Msg("Post created")
	writeJSON(w, http.StatusCreated, CreatePostResponse{Success: true, Post: &post})
}

// List handles the request to get the newest posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetRecentPosts(r.Context(), parseLimit(r))
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve posts")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
