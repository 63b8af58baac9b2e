package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ContextKey is the type for request-scoped context keys
type ContextKey string

const (
	// RequestIDKey is the context key for the request ID
	RequestIDKey ContextKey = "requestID"
	// RequestIDHeader is the HTTP header carrying the request ID
	RequestIDHeader = "X-Request-ID"
)

// RequestID returns a middleware that tags each request with an ID,
// honoring one supplied by the caller.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			w.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID extracts the request ID from the request context
func GetRequestID(r *http.Request) string {
	if requestID, ok := r.Context().Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
