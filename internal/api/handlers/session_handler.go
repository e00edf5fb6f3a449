package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// SessionHandler handles registration, sign-in and sign-out.
type SessionHandler struct {
	users         services.UserServiceProvider
	sessions      services.SessionServiceProvider
	tokens        *auth.TokenManager
	secureCookies bool
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(users services.UserServiceProvider, sessions services.SessionServiceProvider, tokens *auth.TokenManager, secureCookies bool) *SessionHandler {
	return &SessionHandler{
		users:         users,
		sessions:      sessions,
		tokens:        tokens,
		secureCookies: secureCookies,
	}
}

// CredentialsPayload defines the structure for register and sign-in requests.
type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// signInResponse is returned to API clients after a successful sign-in.
type signInResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Register handles new user registration.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.CreateUser(r.Context(), payload.Username, payload.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, services.ErrInvalidUsername), errors.Is(err, services.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	writeJSON(w, http.StatusCreated, user)
}

// SignIn authenticates the caller and starts a session. Browser form posts are
// redirected; JSON clients receive the token.
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	payload, fromForm, err := decodeCredentials(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.AuthenticateUser(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("Failed to authenticate user")
		} else {
			log.Warn().Str("username", payload.Username).Msg("Failed sign-in attempt")
		}
		if fromForm {
			http.Redirect(w, r, "/sign-in?error=1", http.StatusSeeOther)
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, claims, err := h.tokens.Issue(user.ClerkID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue session token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  claims.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})

	if fromForm {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, signInResponse{Token: token, Username: user.Username})
}

// SignOut revokes the current session and clears the cookie. Signing out
// without a session only clears the cookie.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		// The revocation only has to outlive the token itself.
		expiresAt := identity.ExpiresAt
		if expiresAt.IsZero() {
			expiresAt = time.Now().Add(h.tokens.TTL())
		}
		if err := h.sessions.RevokeSession(r.Context(), identity.SessionID, expiresAt); err != nil {
			log.Error().Err(err).Str("session_id", identity.SessionID).Msg("Failed to revoke session")
			writeError(w, http.StatusInternalServerError, "Failed to sign out")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})

	if isFormRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeCredentials(r *http.Request) (CredentialsPayload, bool, error) {
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			return CredentialsPayload{}, true, err
		}
		return CredentialsPayload{
			Username: r.PostForm.Get("username"),
			Password: r.PostForm.Get("password"),
		}, true, nil
	}

	var payload CredentialsPayload
	err := json.NewDecoder(r.Body).Decode(&payload)
	return payload, false, err
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}
