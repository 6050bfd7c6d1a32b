package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/neu-balayan/pageantscore/internal/api/apierr"
	"github.com/neu-balayan/pageantscore/internal/services/auth"
)

type sessionKey struct{}

// Auth rejects requests that carry no live administrator session. The token
// is taken from a Bearer Authorization header, or from the session cookie
// for requests made by the dashboard.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sessionToken(r)
			if !ok {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
		})
	}
}

func sessionToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	if cookie, err := r.Cookie(auth.SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// GetSession returns the session Auth attached to the context, or nil
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return session
}

// MustGetSession is GetSession for handlers mounted behind Auth
func MustGetSession(ctx context.Context) *auth.Session {
	session := GetSession(ctx)
	if session == nil {
		panic("api: handler mounted without the Auth middleware")
	}
	return session
}
