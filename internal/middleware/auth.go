package middleware

import (
	"net/http"
	"strings"

	"pageforge/internal/auth"
	"pageforge/internal/httputil"
)

// publicRoute reports whether a request belongs to the visitor-facing
// surface, which never requires a token: published page lookups, the
// rendered page itself, form submissions, and the health check.
func publicRoute(r *http.Request) bool {
	path := r.URL.Path
	switch {
	case path == "/health":
		return true
	case strings.HasPrefix(path, "/r/"):
		return true
	case strings.HasPrefix(path, "/api/pages/slug/"):
		return true
	case path == "/api/submissions" && r.Method == http.MethodPost:
		return true
	}
	return false
}

// Auth validates bearer tokens and attaches the user id to the request
// context. With required=false a missing or invalid token passes
// through anonymously; with required=true the builder surface rejects
// it. Visitor-facing routes are always open.
func Auth(verifier auth.JWTVerifier, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicRoute(r) || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				if required {
					httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				if required {
					httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
