// Package middleware holds the HTTP middleware shared by all routes.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// slowRequestThreshold is the duration above which requests are logged at WARN level.
const slowRequestThreshold = 5 * time.Second

// Logger returns middleware that writes one access log line per request.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", duration.Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.ErrorContext(r.Context(), "request failed", attrs...)
			case duration > slowRequestThreshold:
				logger.WarnContext(r.Context(), "slow request", attrs...)
			default:
				logger.InfoContext(r.Context(), "request completed", attrs...)
			}
		})
	}
}
