// Package client talks to the social server's JSON API on behalf of the
// command-line tools.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/isdelr/social-be/internal/composer"
)

var (
	// ErrUnauthorized is returned when the server does not recognize the caller.
	ErrUnauthorized = errors.New("not signed in")
	// ErrNotFound is returned when the signed-in identity has no user record.
	ErrNotFound = errors.New("not found")
)

// StatusError is returned for unexpected response codes.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded %d", e.Code)
	}
	return fmt.Sprintf("server responded %d: %s", e.Code, e.Message)
}

// Client is an API client bound to one server and, optionally, one session token.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// New creates a Client for the server at baseURL. An empty token makes every
// request anonymous. httpClient may be nil.
func New(baseURL, token string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: u, token: token, http: httpClient}, nil
}

// SignedIn reports whether the client carries a session token.
func (c *Client) SignedIn() bool {
	return c.token != ""
}

type errorBody struct {
	Error string `json:"error"`
}

// Me returns the signed-in caller's username.
func (c *Client) Me(ctx context.Context) (string, error) {
	var body struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, "", &body); err != nil {
		return "", err
	}
	return body.Username, nil
}

// FetchUsername calls Me.
func (c *Client) FetchUsername(ctx context.Context) (string, error) {
	return c.Me(ctx)
}

// SignIn exchanges credentials for a session token and keeps it on the client.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/sign-in", bytes.NewReader(payload), "application/json", &body); err != nil {
		return "", err
	}
	c.token = body.Token
	return body.Token, nil
}

type createPostResponse struct {
	Success bool `json:"success"`
	Post    *struct {
		ID string `json:"id"`
	} `json:"post"`
	Error string `json:"error"`
}

// CreatePost submits a post. A response the server reports as unsuccessful is
// returned as a Result without an error; transport failures and auth
// rejections are errors.
func (c *Client) CreatePost(ctx context.Context, content, imageURL string) (composer.Result, error) {
	payload, err := json.Marshal(map[string]string{"content": content, "imageUrl": imageURL})
	if err != nil {
		return composer.Result{}, err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/posts", bytes.NewReader(payload), "application/json")
	if err != nil {
		return composer.Result{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return composer.Result{}, ErrUnauthorized
	case http.StatusNotFound:
		return composer.Result{}, ErrNotFound
	}

	var body createPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return composer.Result{}, &StatusError{Code: resp.StatusCode}
	}
	result := composer.Result{Success: body.Success, Error: body.Error}
	if body.Post != nil {
		result.PostID = body.Post.ID
	}
	return result, nil
}

// UploadImage uploads the image at path and returns the URL it is served from.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/uploads/post-image", &buf, mw.FormDataContentType(), &body); err != nil {
		return "", err
	}
	return body.URL, nil
}

// do sends a request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	var body errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
