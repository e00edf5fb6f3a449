package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionServiceProvider defines the interface for session revocation.
type SessionServiceProvider interface {
	RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionService tracks sessions ended by sign-out until their tokens expire.
type SessionService struct {
	db *sql.DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *sql.DB) *SessionService {
	return &SessionService{db: db}
}

// RevokeSession marks a session as signed out. Revoking twice is not an error.
func (s *SessionService) RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO revoked_sessions (session_id, expires_at) VALUES (?, ?) ON CONFLICT(session_id) DO NOTHING",
		sessionID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session was signed out.
func (s *SessionService) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT session_id FROM revoked_sessions WHERE session_id = ?", sessionID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PurgeExpired drops revocations whose tokens can no longer be presented.
func (s *SessionService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM revoked_sessions WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
