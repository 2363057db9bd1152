package phone

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// MaxDigits is the longest subscriber number E.164 allows, country code included.
const MaxDigits = 15

// ErrInvalid is wrapped by every error returned from Normalize.
var ErrInvalid = errors.New("invalid phone number")

// Only digits, a leading plus and the usual human separators are accepted.
// libphonenumber itself is more lenient (it maps vanity letters to digits),
// so the character set is checked before parsing.
var allowedRegexp = regexp.MustCompile(`^\+[0-9 ().\-]+$`)

// Error describes why an input was rejected.
type Error struct {
	Input  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid phone number %q: %s", e.Input, e.Reason)
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// Normalize validates an international phone number and returns it in E.164
// form.
//
// Examples:
//   - "+7(906)111-22-33" → "+79061112233"
//   - "+7 906 111 22 33" → "+79061112233"
//   - "79061112233"      → error, country code must be introduced by '+'
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &Error{Input: raw, Reason: "is empty"}
	}
	if !strings.HasPrefix(s, "+") {
		return "", &Error{Input: raw, Reason: "must start with '+' and a country code"}
	}
	if !allowedRegexp.MatchString(s) {
		return "", &Error{Input: raw, Reason: "contains invalid characters"}
	}

	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return "", &Error{Input: raw, Reason: err.Error()}
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", &Error{Input: raw, Reason: "digit count does not match the country code"}
	}

	e164 := phonenumbers.Format(num, phonenumbers.E164)
	if n := len(e164) - 1; n < 1 || n > MaxDigits {
		return "", &Error{Input: raw, Reason: fmt.Sprintf("must have 1 to %d digits", MaxDigits)}
	}
	return e164, nil
}

// IsValid reports whether raw normalizes to an E.164 number.
func IsValid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}
