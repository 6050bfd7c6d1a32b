package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicResponder writes the error response for a request whose handler panicked
type PanicResponder func(w http.ResponseWriter, r *http.Request)

// PlainTextPanic answers with a bare 500
func PlainTextPanic(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Recovery turns a handler panic into a logged 500. The responder is skipped
// when the handler had already started writing, since the status is sent.
// Install it inside Logging so the log entry carries the request id.
func Recovery(logger *slog.Logger, respond PanicResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked := &ResponseWriter{ResponseWriter: w}

			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("panic", fmt.Sprint(p)),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Bool("response_started", tracked.Started()),
					slog.String("stack", string(debug.Stack())),
				)

				if !tracked.Started() {
					respond(w, r)
				}
			}()

			next.ServeHTTP(tracked, r)
		})
	}
}
