package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/phonebook/pkg/errors"
	"github.com/utafrali/phonebook/pkg/logger"
	"github.com/utafrali/phonebook/pkg/validator"
)

// Response is the JSON envelope used for every response body.
// On failure Result holds an ErrorResult.
type Response struct {
	Success bool `json:"success"`
	Result  any  `json:"result"`
}

// ErrorResult is the result payload of a failed request.
type ErrorResult struct {
	ErrorType    string         `json:"error_type"`
	ErrorMessage string         `json:"error_message"`
	ErrorData    map[string]any `json:"error_data"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes {"success":true,"result":result}.
func WriteSuccess(w http.ResponseWriter, status int, result any) {
	WriteJSON(w, status, Response{Success: true, Result: result})
}

// WriteNoContent writes a 204 with an empty body.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteFailure writes {"success":false,"result":{error_type,error_message,error_data}}.
// If w records error types (the logging, tracing and metrics middleware do),
// it is told result.ErrorType.
func WriteFailure(w http.ResponseWriter, status int, result ErrorResult) {
	if rec, ok := w.(interface{ RecordErrorType(string) }); ok {
		rec.RecordErrorType(result.ErrorType)
	}
	WriteJSON(w, status, Response{Success: false, Result: result})
}

// WriteError writes the failure envelope for err. It is the single place an
// error is mapped to a status code. AppErrors carry their own type, message
// and data; bare sentinels get a generic message; anything else is a 500 and
// is logged. The request-scoped logger from context (set by the
// RequestLogger middleware) is preferred over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeAppError(w, appErr)
		return
	}

	result := ErrorResult{
		ErrorType:    apperrors.TypeInternal,
		ErrorMessage: "an internal error occurred",
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		result = ErrorResult{ErrorType: apperrors.TypeNotFound, ErrorMessage: "resource not found"}
	case errors.Is(err, apperrors.ErrAlreadyExists):
		result = ErrorResult{ErrorType: apperrors.TypeConflict, ErrorMessage: "resource already exists"}
	case errors.Is(err, apperrors.ErrInvalidInput):
		result = ErrorResult{ErrorType: apperrors.TypeValidation, ErrorMessage: err.Error()}
	case errors.Is(err, apperrors.ErrUnsupportedType):
		result = ErrorResult{ErrorType: apperrors.TypeUnsupportedMediaType, ErrorMessage: err.Error()}
	}

	WriteFailure(w, status, result)
}

// WriteValidationError writes a 422 validation failure. Field errors from the
// validator package become error_data; an undecodable body is reported under
// the "body" key.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeAppError(w, apperrors.Validation("request validation failed", valErr.Fields()))
		return
	}

	var decErr *validator.DecodeError
	if errors.As(err, &decErr) {
		writeAppError(w, apperrors.InvalidInput("body", decErr.Err.Error()))
		return
	}

	writeAppError(w, apperrors.Validation(err.Error(), nil))
}

func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	WriteFailure(w, appErr.Status, ErrorResult{
		ErrorType:    appErr.Type,
		ErrorMessage: appErr.Message,
		ErrorData:    appErr.Data,
	})
}
