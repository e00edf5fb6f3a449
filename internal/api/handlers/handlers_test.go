package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/models"
	"github.com/isdelr/social-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	services.UserServiceProvider // unimplemented methods panic

	calls     int
	byClerk   map[string]models.User
	lookupErr error
}

func (f *fakeUsers) GetUsernameByClerkID(_ context.Context, clerkID string) (string, error) {
	f.calls++
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	user, ok := f.byClerk[clerkID]
	if !ok {
		return "", services.ErrUserNotFound
	}
	return user.Username, nil
}

func (f *fakeUsers) GetUserByClerkID(_ context.Context, clerkID string) (models.User, error) {
	f.calls++
	if f.lookupErr != nil {
		return models.User{}, f.lookupErr
	}
	user, ok := f.byClerk[clerkID]
	if !ok {
		return models.User{}, services.ErrUserNotFound
	}
	return user, nil
}

type fakePosts struct {
	services.PostServiceProvider

	created []models.Post
	err     error
}

func (f *fakePosts) CreatePost(_ context.Context, author models.User, content, imageURL string) (models.Post, error) {
	if f.err != nil {
		return models.Post{}, f.err
	}
	if strings.TrimSpace(content) == "" && imageURL == "" {
		return models.Post{}, services.ErrEmptyPost
	}
	post := models.Post{ID: "p1", AuthorID: author.ID, AuthorUsername: author.Username, Content: content, ImageURL: imageURL}
	f.created = append(f.created, post)
	return post, nil
}

type fakeSessions struct {
	services.SessionServiceProvider

	revoked map[string]time.Time
}

func (f *fakeSessions) RevokeSession(_ context.Context, sessionID string, expiresAt time.Time) error {
	f.revoked[sessionID] = expiresAt
	return nil
}

func signedIn(r *http.Request, clerkID string) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ID: clerkID, SessionID: "s1"}))
}

func TestGetMe(t *testing.T) {
	linh := models.User{ID: "u1", ClerkID: "user_linh", Username: "linh"}

	tests := []struct {
		name      string
		clerkID   string // empty means anonymous
		lookupErr error
		wantCode  int
		wantBody  string
		wantCalls int
	}{
		{
			name:      "anonymous never touches the store",
			wantCode:  http.StatusUnauthorized,
			wantBody:  `{"error":"Unauthorized"}`,
			wantCalls: 0,
		},
		{
			name:      "identity without user",
			clerkID:   "user_ghost",
			wantCode:  http.StatusNotFound,
			wantBody:  `{"error":"Not found"}`,
			wantCalls: 1,
		},
		{
			name:      "known user",
			clerkID:   "user_linh",
			wantCode:  http.StatusOK,
			wantBody:  `{"username":"linh"}`,
			wantCalls: 1,
		},
		{
			name:      "store failure",
			clerkID:   "user_linh",
			lookupErr: errors.New("disk I/O error"),
			wantCode:  http.StatusInternalServerError,
			wantBody:  `{"error":"Internal server error"}`,
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{byClerk: map[string]models.User{linh.ClerkID: linh}, lookupErr: tt.lookupErr}
			h := NewUserHandler(users)

			r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.clerkID != "" {
				r = signedIn(r, tt.clerkID)
			}
			w := httptest.NewRecorder()
			h.GetMe(w, r)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, tt.wantCalls, users.calls)
		})
	}
}

func TestCreatePost(t *testing.T) {
	linh := models.User{ID: "u1", ClerkID: "user_linh", Username: "linh"}

	tests := []struct {
		name     string
		clerkID  string
		body     string
		postErr  error
		wantCode int
		check    func(t *testing.T, resp CreatePostResponse, posts *fakePosts)
	}{
		{
			name:     "anonymous",
			body:     `{"content":"hello"}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "identity without user",
			clerkID:  "user_ghost",
			body:     `{"content":"hello"}`,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "text post",
			clerkID:  "user_linh",
			body:     `{"content":"hello","imageUrl":""}`,
			wantCode: http.StatusCreated,
			check: func(t *testing.T, resp CreatePostResponse, posts *fakePosts) {
				assert.True(t, resp.Success)
				require.NotNil(t, resp.Post)
				assert.Equal(t, "hello", resp.Post.Content)
				require.Len(t, posts.created, 1)
				assert.Equal(t, "u1", posts.created[0].AuthorID)
			},
		},
		{
			name:     "empty draft",
			clerkID:  "user_linh",
			body:     `{"content":"  ","imageUrl":""}`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, resp CreatePostResponse, posts *fakePosts) {
				assert.False(t, resp.Success)
				assert.Equal(t, "Post must have content or an image", resp.Error)
				assert.Empty(t, posts.created)
			},
		},
		{
			name:     "unsafe image url",
			clerkID:  "user_linh",
			body:     `{"content":"hi","imageUrl":"javascript:alert(1)"}`,
			postErr:  services.ErrInvalidImageURL,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, resp CreatePostResponse, posts *fakePosts) {
				assert.False(t, resp.Success)
				assert.Equal(t, "Image URL must be an uploaded image or an http(s) link", resp.Error)
			},
		},
		{
			name:     "malformed body",
			clerkID:  "user_linh",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "storage failure",
			clerkID:  "user_linh",
			body:     `{"content":"hello"}`,
			postErr:  errors.New("database is locked"),
			wantCode: http.StatusInternalServerError,
			check: func(t *testing.T, resp CreatePostResponse, posts *fakePosts) {
				assert.False(t, resp.Success)
				assert.Equal(t, "Failed to create post", resp.Error)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{byClerk: map[string]models.User{linh.ClerkID: linh}}
			posts := &fakePosts{err: tt.postErr}
			h := NewPostHandler(posts, users)

			r := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(tt.body))
			if tt.clerkID != "" {
				r = signedIn(r, tt.clerkID)
			}
			w := httptest.NewRecorder()
			h.Create(w, r)

			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.check != nil {
				var resp CreatePostResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				tt.check(t, resp, posts)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	for query, want := range map[string]int{
		"":           defaultListLimit,
		"?limit=5":   5,
		"?limit=0":   defaultListLimit,
		"?limit=-3":  defaultListLimit,
		"?limit=abc": defaultListLimit,
		"?limit=500": maxListLimit,
	} {
		r := httptest.NewRequest(http.MethodGet, "/api/posts"+query, nil)
		assert.Equal(t, want, parseLimit(r), query)
	}
}

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadPostImage(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(filepath.Join(dir, "uploads"))

	t.Run("anonymous", func(t *testing.T) {
		body, contentType := multipartImage(t, "image", "a.png", pngHeader)
		r := httptest.NewRequest(http.MethodPost, "/api/uploads/post-image", body)
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		h.UploadPostImage(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("png stored", func(t *testing.T) {
		body, contentType := multipartImage(t, "image", "cat.txt", pngHeader)
		r := signedIn(httptest.NewRequest(http.MethodPost, "/api/uploads/post-image", body), "user_linh")
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		h.UploadPostImage(w, r)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp struct {
			URL string `json:"url"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.URL, UploadURLPrefix))
		assert.True(t, strings.HasSuffix(resp.URL, ".png"))

		stored, err := os.ReadFile(filepath.Join(dir, "uploads", strings.TrimPrefix(resp.URL, UploadURLPrefix)))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, stored)
	})

	t.Run("not an image", func(t *testing.T) {
		body, contentType := multipartImage(t, "image", "evil.png", []byte("#!/bin/sh\necho hi\n"))
		r := signedIn(httptest.NewRequest(http.MethodPost, "/api/uploads/post-image", body), "user_linh")
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		h.UploadPostImage(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		body, contentType := multipartImage(t, "file", "a.png", pngHeader)
		r := signedIn(httptest.NewRequest(http.MethodPost, "/api/uploads/post-image", body), "user_linh")
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		h.UploadPostImage(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSignOutRevokesUntilTokenExpiry(t *testing.T) {
	sessions := &fakeSessions{revoked: map[string]time.Time{}}
	tokens := auth.NewTokenManager("handler-secret", 24*time.Hour, nil)
	h := NewSessionHandler(&fakeUsers{}, sessions, tokens, false)

	exp := time.Now().Add(90 * time.Minute).Truncate(time.Second)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{ID: "user_linh", SessionID: "s1", ExpiresAt: exp}))
	w := httptest.NewRecorder()
	h.SignOut(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, exp, sessions.revoked["s1"])

	// Identities without an expiry fall back to the token lifetime.
	r = httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
	r = signedIn(r, "user_linh")
	h.SignOut(httptest.NewRecorder(), r)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), sessions.revoked["s1"], time.Minute)
}
