package middleware

import (
	"context"
	"net/http"
)

const RequesterIDKey contextKey = "requester_id"

// RequesterIdentity lifts the gateway-authenticated requester id from the
// configured header into the request context. The authenticated requester is
// always authoritative; handlers never accept identities from request
// bodies. Requests without the header pass through, endpoints that require
// an identity reject them individually.
func RequesterIdentity(headerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requesterID := r.Header.Get(headerName); requesterID != "" {
				ctx := context.WithValue(r.Context(), RequesterIDKey, requesterID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequesterFromContext returns the authenticated requester id, if any.
func RequesterFromContext(ctx context.Context) string {
	if v := ctx.Value(RequesterIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
