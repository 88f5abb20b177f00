// FilePath: api/middleware/api.middleware.auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/luzhub/luzhub/internal/auth"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionMiddleware resolves bearer session tokens into caller
// identities for the protected API surface.
type SessionMiddleware struct {
	sessions auth.SessionStore
}

func NewSessionMiddleware(sessions auth.SessionStore) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Authenticate validates the session token and adds the identity to the
// request context.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no session token provided", nil))
			return
		}

		identity, err := m.sessions.Get(r.Context(), token)
		if err != nil {
			handleError(w, errors.NewAuthError("invalid session", err))
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin ensures the resolved identity is an operator.
func (m *SessionMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFrom(r.Context())
		if identity == nil {
			handleError(w, errors.NewAuthError("no identity in context", nil))
			return
		}
		if !identity.Admin {
			handleError(w, errors.NewAuthorizationError("operator access required", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFrom retrieves the authenticated caller from the request
// context, or nil outside the authenticated chain.
func IdentityFrom(ctx context.Context) *models.Identity {
	if identity, ok := ctx.Value(identityKey).(*models.Identity); ok {
		return identity
	}
	return nil
}

// WithIdentity injects an identity into a context. Test helper.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func extractToken(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if parts := strings.Split(bearer, " "); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*errors.APIError); ok {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
