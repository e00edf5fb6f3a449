package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CookieName is the cookie carrying the session token for browser clients.
const CookieName = "token"

// RevocationChecker reports whether a session has been signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Claims defines the JWT claims structure. Subject holds the external identity
// reference and ID the session id.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and validates signed session tokens.
type TokenManager struct {
	key         []byte
	ttl         time.Duration
	revocations RevocationChecker
	now         func() time.Time
}

// NewTokenManager creates a TokenManager. revocations may be nil.
func NewTokenManager(secret string, ttl time.Duration, revocations RevocationChecker) *TokenManager {
	return &TokenManager{
		key:         []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		now:         time.Now,
	}
}

// TTL returns how long issued tokens stay valid.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a new session token for the given external identity reference.
func (m *TokenManager) Issue(identityID string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse parses and validates a token string.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("token is missing subject or session id")
	}
	return claims, nil
}

// ResolveCurrentIdentity implements IdentityResolver over the Authorization header
// and the session cookie. Revoked or invalid tokens resolve to no identity.
func (m *TokenManager) ResolveCurrentIdentity(r *http.Request) (Identity, bool) {
	tokenStr := TokenFromRequest(r)
	if tokenStr == "" {
		return Identity{}, false
	}

	claims, err := m.Parse(tokenStr)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected session token")
		return Identity{}, false
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			log.Error().Err(err).Str("session_id", claims.ID).Msg("Failed to check session revocation")
			return Identity{}, false
		}
		if revoked {
			return Identity{}, false
		}
	}

	id := Identity{ID: claims.Subject, SessionID: claims.ID}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, true
}

// TokenFromRequest extracts a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	// 1. Try to get the token from the Authorization header
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if tokenStr, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(tokenStr)
		}
	}

	// 2. If not in header, fall back to the cookie
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
