// Package requesttime pins a single "now" for each request so record
// timestamps and audit events agree.
package requesttime

import (
	"net/http"
	"time"

	"payoutkyc/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
