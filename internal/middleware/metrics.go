package middleware

import (
	"net/http"
	"time"
)

type requestObserver interface {
	ObserveRequest(method string, route string, status int, duration time.Duration)
}

// Metrics labels requests by route pattern rather than raw path to keep
// label cardinality bounded.
func Metrics(observer requestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			observer.ObserveRequest(r.Method, routePattern(r), wrapped.status, time.Since(started))
		})
	}
}
