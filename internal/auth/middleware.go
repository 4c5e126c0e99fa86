package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

// WithUsername returns a copy of ctx carrying username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKey{}, username)
}

// UsernameFromContext returns the signed-in username, or "" if none.
func UsernameFromContext(ctx context.Context) string {
	u, _ := ctx.Value(contextKey{}).(string)
	return u
}

// RequireUser resolves the session cookie on /api/ requests and stores the
// username in the request context. Requests without a valid session get 401.
// Other paths pass through untouched.
func RequireUser(sessions *SessionStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		username, err := sessions.Validate(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"sign in required"}` + "\n"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
	})
}
