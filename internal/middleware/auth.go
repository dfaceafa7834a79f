// Package middleware holds the request-pipeline stages: the auth gate that
// turns bearer tokens into request-context identities, and the panic
// recovery stage that feeds the error normalizer.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rohitm/contact-manager/internal/apperr"
	"github.com/rohitm/contact-manager/internal/httpx"
	"github.com/rohitm/contact-manager/internal/token"
)

type ctxKey int

const identityKey ctxKey = iota

// Verifier resolves a bearer token to the identity it encodes.
type Verifier interface {
	Verify(tokenString string) (*token.Identity, error)
}

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, ident *token.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFrom extracts the authenticated identity attached by RequireAuth.
func IdentityFrom(ctx context.Context) (*token.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*token.Identity)
	return ident, ok
}

// RequireAuth validates the Authorization bearer header and injects the
// resolved identity into the request context. Registration and login are
// the only API routes not behind it.
func RequireAuth(tokens Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const scheme = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, scheme) {
				httpx.Error(w, apperr.Unauthorized("user is not authorized or token is missing"))
				return
			}

			ident, err := tokens.Verify(strings.TrimPrefix(header, scheme))
			if err != nil {
				httpx.Error(w, apperr.Unauthorized("user is not authorized, invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}
