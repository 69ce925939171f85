package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ceralandia/api/internal/auth"
	"github.com/ceralandia/api/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// LocalSessionCookie carries the access token of an operator session so a
// page reload keeps the operator logged in.
const LocalSessionCookie = "ceralandia_local_user_v1"

// Authenticate resolves the caller from the bearer token and the local
// session cookie. A privileged bearer token wins over the cookie; without
// one, the local session from either source is used.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var privileged, local *session.Session

			if header := r.Header.Get("Authorization"); header != "" {
				parts := strings.SplitN(header, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
					return
				}
				claims, err := auth.ValidateToken(jwtSecret, parts[1])
				if err != nil {
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
					return
				}
				s := sessionFromClaims(claims)
				if s.Source == session.SourcePrivileged {
					privileged = &s
				} else {
					local = &s
				}
			}

			if local == nil {
				if c, err := r.Cookie(LocalSessionCookie); err == nil && c.Value != "" {
					// A stale cookie is ignored rather than rejected.
					if claims, err := auth.ValidateToken(jwtSecret, c.Value); err == nil && claims.Source == session.SourceLocal {
						s := sessionFromClaims(claims)
						local = &s
					}
				}
			}

			s := session.Restore(privileged, local)
			if !s.Authenticated() {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromClaims(c *auth.Claims) session.Session {
	return session.Session{Username: c.Username, Role: c.Role, Source: c.Source}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			for _, role := range roles {
				if s.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		})
	}
}

func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	return s, ok && s.Authenticated()
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
