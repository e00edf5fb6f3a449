package services

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidUsername is returned when a username does not match the allowed pattern.
	ErrInvalidUsername = errors.New("username must be 3-30 characters of a-z, 0-9 or _")
	// ErrWeakPassword is returned when a password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrInvalidCredentials is returned when a sign-in attempt fails for any reason.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrEmptyPost is returned when a post has neither text nor an image.
	ErrEmptyPost = errors.New("post must have content or an image")
	// ErrInvalidImageURL is returned when a post image is neither an upload nor an http(s) link.
	ErrInvalidImageURL = errors.New("image url must be an uploaded image or an http(s) link")
)
