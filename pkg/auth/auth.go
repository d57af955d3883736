// Package auth provides request authentication for the lokal gateway.
// The gateway serves a single local engine, so the surface is small:
// either no authentication, or static API keys validated with SHA-256
// hashing and constant-time comparison. The provider layer never sees
// credentials; authentication stops at the transport edge.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// ErrUnauthenticated indicates a credential was presented but invalid.
var ErrUnauthenticated = errors.New("auth: unauthenticated")

// Identity describes an authenticated caller.
type Identity struct {
	Subject string
}

// Decision is the outcome of an authentication attempt.
type Decision int

const (
	// Abstain means no credential relevant to this authenticator was
	// presented.
	Abstain Decision = iota
	// Yes means the credential was valid.
	Yes
	// No means a credential was presented and rejected.
	No
)

// Result carries the decision and, on success, the caller identity.
type Result struct {
	Decision Decision
	Identity *Identity
	Err      error
}

// Authenticator validates a request credential.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Result
}

type identityKey struct{}

// ContextWithIdentity returns a context carrying the identity.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored in the context, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}

// Middleware enforces authentication on an http.Handler. A nil
// authenticator disables enforcement. Abstain is treated as a missing
// credential and rejected, since enabling auth means requiring it.
func Middleware(a Authenticator, next http.Handler) http.Handler {
	if a == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := a.Authenticate(r.Context(), r)
		if result.Decision != Yes {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), result.Identity)))
	})
}
