// Package nav builds the navigation shell: the collapsible menu whose entries
// depend on whether the caller is signed in and on their username.
package nav

import (
	"context"
	"net/url"
	"sync"

	"github.com/isdelr/social-be/internal/i18n"
	"github.com/rs/zerolog/log"
)

// Kind identifies a menu entry.
type Kind string

const (
	KindHome          Kind = "home"
	KindNotifications Kind = "notifications"
	KindProfile       Kind = "profile"
	KindSignOut       Kind = "sign_out"
	KindSignIn        Kind = "sign_in"
)

// Paths the menu links to.
const (
	HomePath          = "/"
	NotificationsPath = "/notifications"
	SignInPath        = "/sign-in"
	SignOutPath       = "/api/auth/sign-out"
)

// Item is a single menu entry. Label is an i18n message key. Entries with
// Method POST are rendered as forms rather than links.
type Item struct {
	Kind   Kind
	Label  string
	Href   string
	Method string
}

// Menu is the resolved menu content.
type Menu struct {
	SignedIn bool
	Username string
	Items    []Item
}

// Has reports whether the menu contains an entry of kind k.
func (m Menu) Has(k Kind) bool {
	for _, item := range m.Items {
		if item.Kind == k {
			return true
		}
	}
	return false
}

// UsernameFetcher looks up the signed-in caller's username.
type UsernameFetcher interface {
	FetchUsername(ctx context.Context) (string, error)
}

// FetcherFunc adapts a function to UsernameFetcher.
type FetcherFunc func(ctx context.Context) (string, error)

// FetchUsername calls f.
func (f FetcherFunc) FetchUsername(ctx context.Context) (string, error) {
	return f(ctx)
}

// ProfilePath returns the public profile route for username.
func ProfilePath(username string) string {
	return "/profile/" + url.PathEscape(username)
}

// Build resolves the menu. The fetcher is consulted only for signed-in callers;
// when it fails the profile entry is left out.
func Build(ctx context.Context, signedIn bool, fetcher UsernameFetcher) Menu {
	menu := Menu{
		SignedIn: signedIn,
		Items:    []Item{{Kind: KindHome, Label: i18n.NavHome, Href: HomePath}},
	}

	if !signedIn {
		menu.Items = append(menu.Items, Item{Kind: KindSignIn, Label: i18n.NavSignIn, Href: SignInPath})
		return menu
	}

	if fetcher != nil {
		username, err := fetcher.FetchUsername(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("Username unavailable for navigation menu")
		} else {
			menu.Username = username
		}
	}

	menu.Items = append(menu.Items, Item{Kind: KindNotifications, Label: i18n.NavNotifications, Href: NotificationsPath})
	if menu.Username != "" {
		menu.Items = append(menu.Items, Item{Kind: KindProfile, Label: i18n.NavProfile, Href: ProfilePath(menu.Username)})
	}
	menu.Items = append(menu.Items, Item{Kind: KindSignOut, Label: i18n.NavSignOut, Href: SignOutPath, Method: "POST"})
	return menu
}

// Shell is the open/closed state of the slide-over panel.
type Shell struct {
	mu   sync.Mutex
	open bool
}

// Open shows the panel.
func (s *Shell) Open() { s.SetOpen(true) }

// Close hides the panel.
func (s *Shell) Close() { s.SetOpen(false) }

// SetOpen sets the panel state.
func (s *Shell) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// Toggle flips the panel state and returns the new state.
func (s *Shell) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

// IsOpen reports whether the panel is shown.
func (s *Shell) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}
