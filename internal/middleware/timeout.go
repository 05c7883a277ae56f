package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RequestTimeout bounds every request context. Backend calls that outlive
// the deadline fail with context.DeadlineExceeded, which handlers surface as
// a transient error rather than hanging the interaction.
func RequestTimeout(timeout time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
