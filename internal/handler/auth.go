package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/bookheaven/bookheaven/internal/domain/account"
)

// claimsKey is the context key for the authenticated identity.
type claimsKey struct{}

// claimsFromContext extracts the verified claims set by authenticate.
func claimsFromContext(ctx context.Context) (*account.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*account.Claims)
	return c, ok
}

// authenticate verifies the bearer token and stores its claims in the request
// context. Requests without a valid token are rejected before any business
// logic runs.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			raw = strings.TrimSpace(raw[7:])
		}

		claims, err := h.accounts.VerifyToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole guards a route group to a single role. It runs after
// authenticate and answers 403 for a mismatched role.
func requireRole(role account.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if claims.Role != role {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// mustClaims returns the request identity; the auth middleware guarantees it
// is present on protected routes.
func mustClaims(r *http.Request) *account.Claims {
	c, _ := claimsFromContext(r.Context())
	return c
}
