package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// NotificationHandler handles HTTP requests related to a user's notifications.
type NotificationHandler struct {
	notifications services.NotificationServiceProvider
	users         services.UserServiceProvider
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications services.NotificationServiceProvider, users services.UserServiceProvider) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// GetMine handles the request to get the signed-in caller's recent notifications.
func (h *NotificationHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	user, err := h.users.GetUserByClerkID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeNotFound(w)
			return
		}
		log.Error().Err(err).Str("clerk_id", identity.ID).Msg("Failed to resolve notification owner")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	notifications, err := h.notifications.GetNotificationsForUser(r.Context(), user.ID, parseLimit(r))
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to retrieve notifications")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}
