package phone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Valid(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+79061112233", "+79061112233"},
		{"+7(906)111-22-33", "+79061112233"},
		{"+7 906 111 22 33", "+79061112233"},
		{"+7-906-111-22-33", "+79061112233"},
		{"  +79061112233  ", "+79061112233"},
		{"+79990001122", "+79990001122"},
		{"+1 (650) 253-0000", "+16502530000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"12345", "must start with '+'"},
		{"phone123", "must start with '+'"},
		{"79061112233abc", "must start with '+'"},
		{"96061112233", "must start with '+'"},
		{"+7906111223abc", "invalid characters"},
		{"+1-800-FLOWERS", "invalid characters"},
		{"", "is empty"},
		{"   ", "is empty"},
		{"+7906", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.Is(err, ErrInvalid))

			var phoneErr *Error
			require.ErrorAs(t, err, &phoneErr)
			assert.Equal(t, tt.input, phoneErr.Input)
			assert.NotEmpty(t, phoneErr.Reason)
			if tt.reason != "" {
				assert.Contains(t, phoneErr.Reason, tt.reason)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize("+7 (906) 111-22-33")
	require.NoError(t, err)

	second, err := Normalize(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalize_E164Shape(t *testing.T) {
	got, err := Normalize("+7-906-111-22-33")
	require.NoError(t, err)
	assert.Regexp(t, `^\+[1-9][0-9]{0,14}$`, got)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("+79061112233"))
	assert.False(t, IsValid("96061112233"))
}

func TestError_Message(t *testing.T) {
	err := &Error{Input: "abc", Reason: "contains invalid characters"}
	assert.Equal(t, `invalid phone number "abc": contains invalid characters`, err.Error())
}
