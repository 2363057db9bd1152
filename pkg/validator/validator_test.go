package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Address     string `json:"address" validate:"required,max=20"`
	Level       string `json:"level" validate:"omitempty,oneof=debug info"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{PhoneNumber: "+79061112233", Address: "Lavochkina"}
	err := Validate(s)
	assert.NoError(t, err)
}

func TestValidate_PhoneWithSeparators(t *testing.T) {
	s := testStruct{PhoneNumber: "+7(906)111-22-33", Address: "Lavochkina"}
	assert.NoError(t, Validate(s))
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{PhoneNumber: "+79061112233"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "address")
	assert.Equal(t, "is required", fields["address"])
}

func TestValidate_InvalidPhone(t *testing.T) {
	for _, input := range []string{"12345", "phone123", "79061112233abc", "96061112233"} {
		t.Run(input, func(t *testing.T) {
			err := Validate(testStruct{PhoneNumber: input, Address: "Lavochkina"})
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "must be a valid E.164 phone number", valErr.Fields()["phone_number"])
		})
	}
}

func TestValidate_BlankRejected(t *testing.T) {
	type blankStruct struct {
		Address string `json:"address" validate:"required,notblank"`
	}

	err := Validate(blankStruct{Address: "   "})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must not be blank", valErr.Fields()["address"])

	assert.NoError(t, Validate(blankStruct{Address: " Lavochkina "}))
}

func TestValidate_MaxLength(t *testing.T) {
	s := testStruct{PhoneNumber: "+79061112233", Address: strings.Repeat("a", 21)}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["address"], "at most 20")
}

func TestValidate_OneOf(t *testing.T) {
	s := testStruct{PhoneNumber: "+79061112233", Address: "x", Level: "trace"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["level"], "one of")
}

func TestValidate_MultipleErrors(t *testing.T) {
	s := testStruct{}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "phone_number")
	assert.Contains(t, fields, "address")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(testStruct{PhoneNumber: "+79061112233"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'address'")
	assert.Contains(t, err.Error(), "is required")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"phone_number":"+79061112233","address":"Lavochkina"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.NoError(t, err)
	assert.Equal(t, "+79061112233", s.PhoneNumber)
	assert.Equal(t, "Lavochkina", s.Address)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	body := `{"phone_number":"12345","address":""}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
