package middleware

import (
	"context"
	"net/http"
	"regexp"
)

type contextKeyType string

const visitorIDKey contextKeyType = "visitor_id"

// VisitorHeader carries the anonymous storefront visitor identifier.
const VisitorHeader = "X-Visitor-ID"

var visitorIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Visitor reads the visitor identifier from the X-Visitor-ID header and stores
// it in the request context. Malformed identifiers are ignored.
func Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(VisitorHeader); id != "" && visitorIDPattern.MatchString(id) {
			r = r.WithContext(context.WithValue(r.Context(), visitorIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// VisitorIDFromContext returns the visitor ID set by the Visitor middleware.
func VisitorIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(visitorIDKey).(string); ok {
		return id
	}
	return ""
}
