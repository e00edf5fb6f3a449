package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/i18n"
	"github.com/isdelr/social-be/internal/nav"
	"github.com/isdelr/social-be/internal/services"
	"github.com/isdelr/social-be/internal/web/templates"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const pageSize = 20

// Handler serves the server-rendered pages around the navigation shell.
type Handler struct {
	users         services.UserServiceProvider
	posts         services.PostServiceProvider
	notifications services.NotificationServiceProvider
}

// NewHandler creates a new web Handler.
func NewHandler(users services.UserServiceProvider, posts services.PostServiceProvider, notifications services.NotificationServiceProvider) *Handler {
	return &Handler{users: users, posts: posts, notifications: notifications}
}

// Routes registers the page routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/sign-in", h.SignIn)
	r.Get("/notifications", h.Notifications)
	r.Get("/profile/{username}", h.Profile)
}

// pageContext carries what every page needs for its chrome.
type pageContext struct {
	tag     language.Tag
	printer *message.Printer
	navbar  templ.Component
}

// newPageContext resolves language and navigation for r. The username is
// only looked up for signed-in callers.
func (h *Handler) newPageContext(r *http.Request) pageContext {
	tag := i18n.Match(r.Header.Get("Accept-Language"))
	printer := i18n.PrinterFor(r.Header.Get("Accept-Language"))

	var shell nav.Shell
	shell.SetOpen(r.URL.Query().Get("menu") == "open")

	identity, signedIn := auth.IdentityFromContext(r.Context())
	var fetcher nav.UsernameFetcher
	if signedIn {
		fetcher = nav.FetcherFunc(func(ctx context.Context) (string, error) {
			return h.users.GetUsernameByClerkID(ctx, identity.ID)
		})
	}
	menu := nav.Build(r.Context(), signedIn, fetcher)

	return pageContext{
		tag:     tag,
		printer: printer,
		navbar: templates.MobileNavbar(templates.NavbarView{
			Menu:    menu,
			Open:    shell.IsOpen(),
			Printer: printer,
		}),
	}
}

func (pc pageContext) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	page := templates.Page(templates.PageOptions{
		Title:  title,
		Lang:   pc.tag.String(),
		Navbar: pc.navbar,
		Body:   body,
	})
	templ.Handler(page, templ.WithStatus(status)).ServeHTTP(w, r)
}

// Home renders the feed.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	pc := h.newPageContext(r)
	posts, err := h.posts.GetRecentPosts(r.Context(), pageSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load feed")
		http.Error(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}
	pc.render(w, r, http.StatusOK, pc.printer.Sprintf(i18n.PageFeed), templates.PostList(posts, pc.printer))
}

// SignIn renders the sign-in form.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, nav.HomePath, http.StatusSeeOther)
		return
	}
	pc := h.newPageContext(r)
	failed := r.URL.Query().Get("error") != ""
	pc.render(w, r, http.StatusOK, pc.printer.Sprintf(i18n.NavSignIn), templates.SignInForm(failed, pc.printer))
}

// Notifications renders the caller's notifications. Anonymous callers are sent to sign in.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, nav.SignInPath, http.StatusSeeOther)
		return
	}
	pc := h.newPageContext(r)

	user, err := h.users.GetUserByClerkID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			h.notFound(w, r, pc)
			return
		}
		log.Error().Err(err).Str("clerk_id", identity.ID).Msg("Failed to resolve notification owner")
		http.Error(w, "Failed to load notifications", http.StatusInternalServerError)
		return
	}

	list, err := h.notifications.GetNotificationsForUser(r.Context(), user.ID, pageSize)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load notifications")
		http.Error(w, "Failed to load notifications", http.StatusInternalServerError)
		return
	}
	pc.render(w, r, http.StatusOK, pc.printer.Sprintf(i18n.PageNotifications), templates.NotificationList(list, pc.printer))
}

// Profile renders a user's public profile and their posts.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	pc := h.newPageContext(r)
	username := chi.URLParam(r, "username")

	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			h.notFound(w, r, pc)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to load profile")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	posts, err := h.posts.GetPostsByAuthor(r.Context(), user.ID, pageSize)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load profile posts")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	pc.render(w, r, http.StatusOK, "@"+user.Username,
		templates.Stack(templates.ProfileHeader(user.Profile()), templates.PostList(posts, pc.printer)))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, pc pageContext) {
	pc.render(w, r, http.StatusNotFound, pc.printer.Sprintf(i18n.PageNotFound), nil)
}
