package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/utafrali/phonebook/pkg/logger"
)

// CorrelationIDHeader carries the request's correlation ID in both directions.
const CorrelationIDHeader = "X-Correlation-ID"

// RequestLogging emits one log line per request with method, url, route,
// status, duration and correlation ID, plus error_type for failure envelopes.
// 5xx responses are logged at error level. The correlation ID is taken from
// the X-Correlation-ID header or generated, and echoed back in the response.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			correlationID := r.Header.Get(CorrelationIDHeader)
			if correlationID == "" {
				correlationID = uuid.New().String()
			}

			ctx := logger.WithCorrelationID(r.Context(), correlationID)
			r = r.WithContext(ctx)
			w.Header().Set(CorrelationIDHeader, correlationID)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", rec.bytes),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("correlation_id", correlationID),
			}
			if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
				attrs = append(attrs, slog.String("route", rctx.RoutePattern()))
			}
			if rec.errorType != "" {
				attrs = append(attrs, slog.String("error_type", rec.errorType))
			}

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			l.LogAttrs(ctx, level, "http request", attrs...)
		})
	}
}
