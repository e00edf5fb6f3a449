package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// meResponse is exactly what GET /api/me reveals about the caller.
type meResponse struct {
	Username string `json:"username"`
}

// GetMe resolves the signed-in caller to their public username. Anonymous
// callers get a 401 without the user store being consulted.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	username, err := h.service.GetUsernameByClerkID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Warn().Str("clerk_id", identity.ID).Msg("Signed-in identity has no user record")
			writeNotFound(w)
			return
		}
		log.Error().Err(err).Str("clerk_id", identity.ID).Msg("Failed to look up username")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{Username: username})
}

// GetProfile handles retrieving a user's public profile by username.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.service.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeNotFound(w)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to get user profile")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}
