package middleware

import (
	"context"
	"net/http"

	"github.com/neu-balayan/pageantscore/internal/services/auth"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"

	// SessionCookie holds the administrator session token
	SessionCookie = auth.SessionCookie
)

// GetSession retrieves the administrator session from the request context.
// Returns nil if no administrator is signed in.
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// Admin returns the signed-in administrator's username, or ""
func Admin(ctx context.Context) string {
	if session := GetSession(ctx); session != nil {
		return session.Username
	}
	return ""
}

// Auth returns middleware that requires an administrator session.
// Redirects to the login form if there is none.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromCookie(r, authService)
			if session == nil {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attaches the session if there is one
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := sessionFromCookie(r, authService); session != nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFromCookie(r *http.Request, authService *auth.Service) *auth.Session {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := authService.ValidateSession(cookie.Value)
	if err != nil {
		return nil
	}
	return session
}
