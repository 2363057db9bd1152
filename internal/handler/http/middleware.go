package http

import (
	"mime"
	"net/http"

	apperrors "github.com/utafrali/phonebook/pkg/errors"
	"github.com/utafrali/phonebook/pkg/httputil"
)

// ContentTypeJSON rejects POST and PUT requests whose Content-Type is set to
// anything other than application/json. A missing header is accepted.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if ct := r.Header.Get("Content-Type"); ct != "" {
				mediaType, _, err := mime.ParseMediaType(ct)
				if err != nil || mediaType != "application/json" {
					httputil.WriteError(w, r,
						apperrors.UnsupportedMediaType("Content-Type must be application/json"), nil)
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeRouteError(w http.ResponseWriter, status int, errorType, message string) {
	httputil.WriteFailure(w, status, httputil.ErrorResult{
		ErrorType:    errorType,
		ErrorMessage: message,
	})
}
