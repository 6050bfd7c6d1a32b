package middleware

import (
	"context"
	"net/http"

	"github.com/oklog/ulid/v2"
)

// HeaderRequestID carries the request id on requests and responses
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// RequestID assigns each request a ULID, or keeps a valid one supplied by
// the caller, stores it in the context and echoes it in X-Request-ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.Make().String()
		}

		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id stored in ctx, or "" if none
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
