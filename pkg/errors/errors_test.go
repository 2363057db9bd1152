package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrStore,
		ErrInternal, ErrUnsupportedType,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("dial tcp: connection refused")
	appErr := &AppError{Type: TypeStore, Message: "redis connection failure", Err: inner}
	assert.Contains(t, appErr.Error(), "StoreError")
	assert.Contains(t, appErr.Error(), "redis connection failure")
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Type: TypeNotFound, Message: "address not found"}
	assert.Equal(t, "NotFound: address not found", appErr.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	appErr := &AppError{Type: TypeNotFound, Message: "nope", Err: ErrNotFound}
	assert.True(t, errors.Is(appErr, ErrNotFound))
}

func TestAppError_Unwrap_Nil(t *testing.T) {
	appErr := &AppError{Type: "Test", Message: "test"}
	assert.Nil(t, appErr.Unwrap())
}

// --- Constructor functions ---

func TestNotFound(t *testing.T) {
	err := NotFound("address", "+79061112233")
	require.NotNil(t, err)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Contains(t, err.Message, "address")
	assert.Contains(t, err.Message, "+79061112233")
	assert.Equal(t, "+79061112233", err.Data["id"])
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAlreadyExists(t *testing.T) {
	err := AlreadyExists("address", "phone_number", "+79061112233")
	require.NotNil(t, err)
	assert.Equal(t, TypeConflict, err.Type)
	assert.Contains(t, err.Message, "phone_number")
	assert.Contains(t, err.Message, "+79061112233")
	assert.Equal(t, "+79061112233", err.Data["phone_number"])
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestValidation(t *testing.T) {
	err := Validation("request validation failed", map[string]string{"address": "is required"})
	require.NotNil(t, err)
	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "is required", err.Data["address"])
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidation_NoFields(t *testing.T) {
	err := Validation("bad", nil)
	assert.Nil(t, err.Data)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("phone_number", "must be a valid E.164 phone number")
	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "must be a valid E.164 phone number", err.Data["phone_number"])
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
}

func TestStore(t *testing.T) {
	cause := fmt.Errorf("i/o timeout")
	err := Store("redis connection failure", cause)
	require.NotNil(t, err)
	assert.Equal(t, TypeStore, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "i/o timeout", err.Data["error"])
	assert.True(t, errors.Is(err, ErrStore))
	assert.True(t, errors.Is(err, cause))
}

func TestStore_NilCause(t *testing.T) {
	err := Store("redis error", nil)
	assert.Nil(t, err.Data)
	assert.True(t, errors.Is(err, ErrStore))
}

func TestInternal(t *testing.T) {
	inner := fmt.Errorf("segfault")
	err := Internal(inner)
	require.NotNil(t, err)
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Contains(t, err.Error(), "segfault")
}

func TestUnsupportedMediaType(t *testing.T) {
	err := UnsupportedMediaType("Content-Type must be application/json")
	assert.Equal(t, TypeUnsupportedMediaType, err.Type)
	assert.Equal(t, http.StatusUnsupportedMediaType, err.Status)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

// --- Wrap ---

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "lookup address")
	assert.Contains(t, wrapped.Error(), "lookup address")
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

// --- HTTPStatus ---

func TestHTTPStatus_AppError(t *testing.T) {
	appErr := NotFound("address", "+1")
	assert.Equal(t, http.StatusNotFound, HTTPStatus(appErr))
}

func TestHTTPStatus_SentinelErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrInvalidInput, http.StatusUnprocessableEntity},
		{ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{ErrStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("unknown")))
}
