package chi

import (
	"context"
	"net/http"
	"strings"
)

// sessionCookie is the fallback token carrier for browser clients.
const sessionCookie = "session_token"

// exemptPrefixes are routes that bypass session validation: operational
// endpoints and the auth endpoints themselves.
var exemptPrefixes = []string{
	"/health",
	"/metrics",
	"/api/v1/auth/",
}

// SessionVerifier resolves a session token to its account email.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// SessionMiddleware returns a middleware that validates session tokens.
// If required is false, validation is disabled (pass-through).
func SessionMiddleware(verifier SessionVerifier, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !required {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range exemptPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(sessionCookie); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, codeSessionExpired, "sign in required")
				return
			}

			if _, err := verifier.Verify(r.Context(), token); err != nil {
				writeError(w, http.StatusUnauthorized, codeSessionExpired, "session expired or invalid")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) {
		return ""
	}
	return auth[len(bearerPrefix):]
}
