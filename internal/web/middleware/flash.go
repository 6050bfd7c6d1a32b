package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/neu-balayan/pageantscore/internal/web/templates/layout"
)

// Flash levels, used as the CSS modifier of the notice
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	flashCookieName = "flash"
	flashContextKey = contextKey("flash")
	flashMaxAge     = 60
)

// GetFlash returns the notice carried over from the previous response, or nil
func GetFlash(ctx context.Context) *layout.FlashMessage {
	flash, _ := ctx.Value(flashContextKey).(*layout.FlashMessage)
	return flash
}

// SetFlash queues a notice for the next page the browser loads. The value is
// base64 encoded so contestant names survive cookie value restrictions.
func SetFlash(w http.ResponseWriter, level, message string) {
	http.SetCookie(w, flashCookie(encodeFlash(level, message), flashMaxAge))
}

// Flash returns middleware that moves a queued notice into the request
// context and clears the cookie, so each notice shows exactly once
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(flashCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			http.SetCookie(w, flashCookie("", -1))
			if flash := decodeFlash(cookie.Value); flash != nil {
				r = r.WithContext(context.WithValue(r.Context(), flashContextKey, flash))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func flashCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func encodeFlash(level, message string) string {
	return level + "." + base64.RawURLEncoding.EncodeToString([]byte(message))
}

// decodeFlash drops values it cannot read instead of showing garbage
func decodeFlash(value string) *layout.FlashMessage {
	level, encoded, ok := strings.Cut(value, ".")
	if !ok {
		return nil
	}
	switch level {
	case FlashSuccess, FlashError, FlashInfo:
	default:
		return nil
	}

	message, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(message) == 0 {
		return nil
	}
	return &layout.FlashMessage{Type: level, Message: string(message)}
}
