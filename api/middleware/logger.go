package middleware

import (
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// SetupLoggerMiddleware logs every request except health checks and metrics
// scrapes, which arrive on a fixed schedule and would drown the webhook traffic.
func (mw *Middleware) SetupLoggerMiddleware() func(http.Handler) http.Handler {
	logRequests := gecho.Handlers.CreateLoggingMiddleware(mw.logger)
	return func(next http.Handler) http.Handler {
		logged := logRequests(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isMonitoringPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			logged.ServeHTTP(w, r)
		})
	}
}

func isMonitoringPath(path string) bool {
	return path == "/" || path == "/metrics" || strings.HasPrefix(path, "/health")
}
