package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/social-be/internal/models"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUsernameByClerkID(ctx context.Context, clerkID string) (string, error)
	GetUserByClerkID(ctx context.Context, clerkID string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUsernameByClerkID resolves an external identity reference to the public username.
func (s *UserService) GetUsernameByClerkID(ctx context.Context, clerkID string) (string, error) {
	var username string
	err := s.db.QueryRowContext(ctx, "SELECT username FROM users WHERE clerk_id = ?", clerkID).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup username: %w", err)
	}
	return username, nil
}

// GetUserByClerkID retrieves a single user by their external identity reference.
func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, clerk_id, username, image_url, created_at FROM users WHERE clerk_id = ?", clerkID)
	return scanUser(row)
}

// GetUserByUsername retrieves a single user by their username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, clerk_id, username, image_url, created_at FROM users WHERE username = ?", strings.ToLower(username))
	return scanUser(row)
}

// CreateUser provisions a new user with a fresh external identity reference, hashing their password.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return models.User{}, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return models.User{}, ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		ClerkID:      "user_" + uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, clerk_id, username, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.ClerkID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	var imageURL, passwordHash sql.NullString
	row := s.db.QueryRowContext(ctx,
		"SELECT id, clerk_id, username, image_url, password_hash, created_at FROM users WHERE username = ?",
		strings.ToLower(strings.TrimSpace(username)))
	err := row.Scan(&user.ID, &user.ClerkID, &user.Username, &imageURL, &passwordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}

	// Users provisioned elsewhere have no local password.
	if !passwordHash.Valid || passwordHash.String == "" {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash.String), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.ImageURL = imageURL.String
	return user, nil
}

// scanUser scans a single row into a User, mapping a missing row to ErrUserNotFound.
func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var imageURL sql.NullString
	if err := row.Scan(&user.ID, &user.ClerkID, &user.Username, &imageURL, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	user.ImageURL = imageURL.String
	return user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
