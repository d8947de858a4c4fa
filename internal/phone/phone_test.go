package phone

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"local zero prefix", "081234567890", "+6281234567890"},
		{"country code", "6281234567890", "+6281234567890"},
		{"bare subscriber", "81234567890", "+6281234567890"},
		{"punctuation and spaces", "  0812-3456-7890", "+6281234567890"},
		{"plus country code", "+62 812 3456 7890", "+6281234567890"},
		{"fallback prefix", "21555123", "+6221555123"},
		{"parentheses", "(0812) 345.678", "+62812345678"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_NoDigitsIsInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "+-()"} {
		got, err := Normalize(in)
		if !errors.Is(err, ErrInvalidPhoneNumber) {
			t.Fatalf("Normalize(%q) error = %v, want ErrInvalidPhoneNumber", in, err)
		}
		if got != "" {
			t.Fatalf("Normalize(%q) = %q, want empty", in, got)
		}
	}
}

func TestNormalize_LocalFormMatchesDroppedZero(t *testing.T) {
	for _, rest := range []string{"8", "81", "8123", "812345678901"} {
		in := "0" + rest
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", in, err)
		}
		if got != "+62"+rest {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, "+62"+rest)
		}
	}
}

func TestNormalize_OutputIsPrefixPlusDigits(t *testing.T) {
	inputs := []string{"0812", "62", "8", "1", "999 888", "62-62-62"}
	for _, in := range inputs {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", in, err)
		}
		if !strings.HasPrefix(got, CountryPrefix) {
			t.Fatalf("Normalize(%q) = %q, missing %s", in, got, CountryPrefix)
		}
		if Digits(got[len(CountryPrefix):]) != got[len(CountryPrefix):] {
			t.Fatalf("Normalize(%q) = %q, want only digits after prefix", in, got)
		}
	}
}
