// Package phone canonicalizes Indonesian phone numbers.
package phone

import (
	"errors"
	"strings"
)

// CountryPrefix is prepended to every canonical number.
const CountryPrefix = "+62"

// ErrInvalidPhoneNumber is returned when the input carries no digits.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// Normalize converts a locally entered number ("0812-3456-7890", "62812...",
// "812...") into the canonical +62 form. Everything that is not a digit is
// dropped first.
func Normalize(input string) (string, error) {
	digits := Digits(input)
	if digits == "" {
		return "", ErrInvalidPhoneNumber
	}

	switch {
	case strings.HasPrefix(digits, "08"):
		return CountryPrefix + digits[1:], nil
	case strings.HasPrefix(digits, "62"):
		return CountryPrefix + digits[2:], nil
	default:
		// Covers the bare "8..." subscriber form as well as the blind-prefix fallback.
		return CountryPrefix + digits, nil
	}
}

// Digits strips every non-digit from input.
func Digits(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
