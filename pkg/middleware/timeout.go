package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/utafrali/phonebook/pkg/errors"
	"github.com/utafrali/phonebook/pkg/httputil"
)

// Timeout cancels the request context after d. When the handler returns past
// the deadline without having written anything, it responds 504 with an
// InternalError envelope.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			rec := newStatusRecorder(w)
			defer func() {
				cancel()
				if errors.Is(ctx.Err(), context.DeadlineExceeded) && !rec.wrote {
					httputil.WriteFailure(rec, http.StatusGatewayTimeout, httputil.ErrorResult{
						ErrorType:    apperrors.TypeInternal,
						ErrorMessage: "request timed out",
					})
				}
			}()

			next.ServeHTTP(rec, r.WithContext(ctx))
		})
	}
}
