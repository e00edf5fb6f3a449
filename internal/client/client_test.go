package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/social-be/internal/api"
	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/composer"
	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/i18n"
	"github.com/isdelr/social-be/internal/nav"
	"github.com/isdelr/social-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	url   string
	users *services.UserService
	posts *services.PostService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.New(database.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	users := services.NewUserService(db)
	notifications := services.NewNotificationService(db)
	sessions := services.NewSessionService(db)
	posts := services.NewPostService(db, notifications, nil)
	tokens := auth.NewTokenManager("test-secret", time.Hour, sessions)

	srv := httptest.NewServer(api.NewRouter(api.Dependencies{
		Identity:      tokens,
		Tokens:        tokens,
		Users:         users,
		Posts:         posts,
		Notifications: notifications,
		Sessions:      sessions,
		UploadDir:     t.TempDir(),
	}))
	t.Cleanup(srv.Close)

	return &testServer{url: srv.URL, users: users, posts: posts}
}

func signedInClient(t *testing.T, ts *testServer, username string) *Client {
	t.Helper()
	_, err := ts.users.CreateUser(context.Background(), username, "correct-horse")
	require.NoError(t, err)

	c, err := New(ts.url, "", nil)
	require.NoError(t, err)
	_, err = c.SignIn(context.Background(), username, "correct-horse")
	require.NoError(t, err)
	require.True(t, c.SignedIn())
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", "", nil)
	assert.Error(t, err)
	_, err = New("://", "", nil)
	assert.Error(t, err)
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)

	anon, err := New(ts.url, "", nil)
	require.NoError(t, err)
	_, err = anon.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	c := signedInClient(t, ts, "linh")
	username, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "linh", username)
}

func TestSignInWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.users.CreateUser(context.Background(), "linh", "correct-horse")
	require.NoError(t, err)

	c, err := New(ts.url, "", nil)
	require.NoError(t, err)
	_, err = c.SignIn(context.Background(), "linh", "battery-staple")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.SignedIn())
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)
	c := signedInClient(t, ts, "linh")
	ctx := context.Background()

	result, err := c.CreatePost(ctx, "xin chào", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.PostID)

	result, err = c.CreatePost(ctx, "   ", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Post must have content or an image", result.Error)

	posts, err := ts.posts.GetRecentPosts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "xin chào", posts[0].Content)
}

func TestCreatePostAnonymous(t *testing.T) {
	ts := newTestServer(t)
	c, err := New(ts.url, "", nil)
	require.NoError(t, err)

	_, err = c.CreatePost(context.Background(), "hello", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUploadImage(t *testing.T) {
	ts := newTestServer(t)
	c := signedInClient(t, ts, "linh")

	path := filepath.Join(t.TempDir(), "dot.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), 0o644))

	url, err := c.UploadImage(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".gif"))

	resp, err := http.Get(ts.url + url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	textPath := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("just text"), 0o644))
	_, err = c.UploadImage(context.Background(), textPath)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
}

func TestClientDrivesComposerAndNav(t *testing.T) {
	ts := newTestServer(t)
	c := signedInClient(t, ts, "minh")
	ctx := context.Background()

	menu := nav.Build(ctx, c.SignedIn(), c)
	assert.Equal(t, "minh", menu.Username)
	assert.True(t, menu.Has(nav.KindProfile))

	var (
		mu      sync.Mutex
		notices []composer.Notice
	)
	comp := composer.New(c, composer.NotifierFunc(func(n composer.Notice) {
		mu.Lock()
		defer mu.Unlock()
		notices = append(notices, n)
	}))
	comp.SetContent("from the terminal")
	require.NoError(t, comp.Submit(ctx))

	assert.Equal(t, []composer.Notice{{Level: composer.LevelSuccess, Key: i18n.ToastPostCreated}}, notices)
	assert.Empty(t, comp.State().Draft.Content)
}
