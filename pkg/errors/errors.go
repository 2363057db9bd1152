package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrStore           = errors.New("store unavailable")
	ErrInternal        = errors.New("internal error")
	ErrUnsupportedType = errors.New("unsupported media type")
)

// Error types reported in the error_type field of failure responses.
const (
	TypeValidation           = "ValidationError"
	TypeNotFound             = "NotFound"
	TypeConflict             = "Conflict"
	TypeStore                = "StoreError"
	TypeInternal             = "InternalError"
	TypeUnsupportedMediaType = "UnsupportedMediaType"
)

// AppError represents a structured application error with HTTP status mapping.
// Data is rendered as error_data and may be nil.
type AppError struct {
	Type    string         `json:"error_type"`
	Message string         `json:"error_message"`
	Data    map[string]any `json:"error_data"`
	Status  int            `json:"-"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Type:    TypeNotFound,
		Message: fmt.Sprintf("%s for %s not found", resource, id),
		Data:    map[string]any{"id": id},
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Type:    TypeConflict,
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Data:    map[string]any{field: value},
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// Validation creates a 422 error carrying field-level messages.
func Validation(message string, fields map[string]string) *AppError {
	var data map[string]any
	if len(fields) > 0 {
		data = make(map[string]any, len(fields))
		for k, v := range fields {
			data[k] = v
		}
	}
	return &AppError{
		Type:    TypeValidation,
		Message: message,
		Data:    data,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrInvalidInput,
	}
}

// InvalidInput creates a 422 validation error for a single field.
func InvalidInput(field, message string) *AppError {
	return Validation("request validation failed", map[string]string{field: message})
}

// Store creates a 500 error for a failed key-value store call. The cause is
// kept in error_data for diagnostics.
func Store(message string, cause error) *AppError {
	appErr := &AppError{
		Type:    TypeStore,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     ErrStore,
	}
	if cause != nil {
		appErr.Data = map[string]any{"error": cause.Error()}
		appErr.Err = fmt.Errorf("%w: %w", ErrStore, cause)
	}
	return appErr
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Type:    TypeInternal,
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// UnsupportedMediaType creates a 415 error.
func UnsupportedMediaType(message string) *AppError {
	return &AppError{
		Type:    TypeUnsupportedMediaType,
		Message: message,
		Status:  http.StatusUnsupportedMediaType,
		Err:     ErrUnsupportedType,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
