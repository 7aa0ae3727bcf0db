// Package http provides middleware shared by shelfstack's HTTP surfaces.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with a generated request ID, the
// response status, bytes written, and elapsed time. The log level follows the
// status class.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			begin := time.Now()
			next.ServeHTTP(ww, r)

			var level func(string, ...zap.Field)
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				level = logger.Error
			case ww.Status() >= http.StatusBadRequest:
				level = logger.Warn
			default:
				level = logger.Info
			}

			level(
				"http request",
				zap.String("requestId", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(begin)),
			)
		})
	}
}
