package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/social-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UploadURLPrefix is the path stored post images are served from.
const UploadURLPrefix = "/uploads/"

// FeedPublisher receives newly created posts for live delivery.
type FeedPublisher interface {
	PublishPost(post models.Post)
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(ctx context.Context, author models.User, content, imageURL string) (models.Post, error)
	GetRecentPosts(ctx context.Context, limit int) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error)
}

// PostService provides business logic for post management.
type PostService struct {
	db                  *sql.DB
	notificationService NotificationServiceProvider
	feed                FeedPublisher
}

// NewPostService creates a new PostService. feed may be nil.
func NewPostService(db *sql.DB, notificationService NotificationServiceProvider, feed FeedPublisher) *PostService {
	return &PostService{
		db:                  db,
		notificationService: notificationService,
		feed:                feed,
	}
}

// CreatePost persists a post for the author. A post needs text or an image.
func (s *PostService) CreatePost(ctx context.Context, author models.User, content, imageURL string) (models.Post, error) {
	imageURL = strings.TrimSpace(imageURL)
	if strings.TrimSpace(content) == "" && imageURL == "" {
		return models.Post{}, ErrEmptyPost
	}
	if imageURL != "" && !validImageURL(imageURL) {
		return models.Post{}, ErrInvalidImageURL
	}

	post := models.Post{
		ID:             uuid.New().String(),
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Content:        content,
		ImageURL:       imageURL,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (id, author_id, content, image_url, created_at) VALUES (?, ?, ?, ?, ?)",
		post.ID, post.AuthorID, post.Content, nullIfEmpty(post.ImageURL), post.CreatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}

	if s.notificationService != nil {
		if err := s.notificationService.CreateNotification(ctx, author.ID, "post.create", "Your post was published."); err != nil {
			log.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to record post notification")
		}
	}
	if s.feed != nil {
		s.feed.PublishPost(post)
	}
	return post, nil
}

// GetRecentPosts retrieves the newest posts across all authors.
func (s *PostService) GetRecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.author_id, u.username, p.content, p.image_url, p.created_at
		FROM posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC, p.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// GetPostsByAuthor retrieves the newest posts of a single author.
func (s *PostService) GetPostsByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.author_id, u.username, p.content, p.image_url, p.created_at
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.author_id = ?
		ORDER BY p.created_at DESC, p.rowid DESC LIMIT ?`, authorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		var imageURL sql.NullString
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.AuthorUsername, &post.Content, &imageURL, &post.CreatedAt); err != nil {
			return nil, err
		}
		post.ImageURL = imageURL.String
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// validImageURL accepts a file under UploadURLPrefix or an absolute http(s) URL.
func validImageURL(raw string) bool {
	if strings.HasPrefix(raw, UploadURLPrefix) {
		name := strings.TrimPrefix(raw, UploadURLPrefix)
		return name != "" && !strings.ContainsAny(name, "/\\?#") && !strings.Contains(name, "..")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
