package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/phonebook/pkg/logger"
)

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, phone_number, trace_id, and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// This middleware should be mounted AFTER RequestLogging (which sets
// correlation_id) and Tracing (which sets the OpenTelemetry span context).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithPhoneNumber tags the request context with the phone number being
// operated on and rebinds the request-scoped logger so later log lines carry
// it. Handlers call it once the path or body phone has been normalized.
func WithPhoneNumber(r *http.Request, phone string) *http.Request {
	ctx := logger.WithPhoneNumber(r.Context(), phone)
	l := logger.FromContext(ctx).With(slog.String("phone_number", phone))
	return r.WithContext(logger.NewContext(ctx, l))
}
