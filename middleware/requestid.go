package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDContextKey is an unexported key type to avoid context collisions.
type requestIDContextKey struct{}

// RequestIDHeader is the header carrying the request ID in responses and,
// when trusted, in incoming requests.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a unique identifier to each request for tracing and
// logging. An existing inbound ID is reused so IDs propagate across proxies;
// otherwise a new UUID is generated. The ID is stored in the request context
// and echoed in the response header.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}

			w.Header().Set(RequestIDHeader, id)

			ctx := context.WithValue(r.Context(), requestIDContextKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext extracts the request ID set by RequestID.
// Returns an empty string when the middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
