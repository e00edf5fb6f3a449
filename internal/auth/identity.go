package auth

import (
	"context"
	"net/http"
	"time"
)

// Identity is the resolved session identity of the current caller.
type Identity struct {
	ID        string // External identity reference, stored on users as clerk_id
	SessionID string
	ExpiresAt time.Time // Zero when the session carries no expiry
}

// IdentityResolver resolves the caller of a request to an identity, if any.
type IdentityResolver interface {
	ResolveCurrentIdentity(r *http.Request) (Identity, bool)
}

// ResolverFunc adapts a plain function to IdentityResolver.
type ResolverFunc func(r *http.Request) (Identity, bool)

// ResolveCurrentIdentity calls f(r).
func (f ResolverFunc) ResolveCurrentIdentity(r *http.Request) (Identity, bool) {
	return f(r)
}

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity attached by Identify, if the caller is signed in.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Identify resolves the caller on every request and attaches the identity to the
// request context. Anonymous requests pass through untouched.
func Identify(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := resolver.ResolveCurrentIdentity(r); ok {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
