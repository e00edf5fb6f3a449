package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/isdelr/social-be/internal/i18n"
	"github.com/stretchr/testify/assert"
)

type countingFetcher struct {
	calls    int
	username string
	err      error
}

func (f *countingFetcher) FetchUsername(context.Context) (string, error) {
	f.calls++
	return f.username, f.err
}

func TestBuildSignedOutNeverFetches(t *testing.T) {
	fetcher := &countingFetcher{username: "linh"}

	menu := Build(context.Background(), false, fetcher)

	assert.Zero(t, fetcher.calls)
	want := []Item{
		{Kind: KindHome, Label: i18n.NavHome, Href: "/"},
		{Kind: KindSignIn, Label: i18n.NavSignIn, Href: "/sign-in"},
	}
	if diff := cmp.Diff(want, menu.Items); diff != "" {
		t.Fatalf("menu items mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, menu.Has(KindNotifications))
	assert.False(t, menu.Has(KindProfile))
	assert.Empty(t, menu.Username)
}

func TestBuildSignedIn(t *testing.T) {
	fetcher := &countingFetcher{username: "linh nguyen"}

	menu := Build(context.Background(), true, fetcher)

	assert.Equal(t, 1, fetcher.calls)
	want := []Item{
		{Kind: KindHome, Label: i18n.NavHome, Href: "/"},
		{Kind: KindNotifications, Label: i18n.NavNotifications, Href: "/notifications"},
		{Kind: KindProfile, Label: i18n.NavProfile, Href: "/profile/linh%20nguyen"},
		{Kind: KindSignOut, Label: i18n.NavSignOut, Href: "/api/auth/sign-out", Method: "POST"},
	}
	if diff := cmp.Diff(want, menu.Items); diff != "" {
		t.Fatalf("menu items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "linh nguyen", menu.Username)
	assert.False(t, menu.Has(KindSignIn))
}

func TestBuildSignedInWithoutUsername(t *testing.T) {
	for name, fetcher := range map[string]UsernameFetcher{
		"fetch error": &countingFetcher{err: errors.New("404")},
		"nil fetcher": nil,
	} {
		t.Run(name, func(t *testing.T) {
			menu := Build(context.Background(), true, fetcher)
			assert.True(t, menu.Has(KindNotifications))
			assert.True(t, menu.Has(KindSignOut))
			assert.False(t, menu.Has(KindProfile))
		})
	}
}

func TestShell(t *testing.T) {
	var s Shell
	assert.False(t, s.IsOpen())
	assert.True(t, s.Toggle())
	assert.True(t, s.IsOpen())
	s.Close()
	assert.False(t, s.IsOpen())
	s.Open()
	assert.True(t, s.IsOpen())
	assert.False(t, s.Toggle())
}
